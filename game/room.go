package game

// Player is one seat at the table. ID is the opaque connection id handed out
// by the transport layer when the socket was accepted.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is one game session. Players keeps insertion order, which is also the
// turn order. Blocks is generated once at creation and never resized.
type Room struct {
	ID        string
	Players   []Player
	Blocks    []Block
	Stability int
	TurnIndex int
	Started   bool
}

// RoomState is the full-room snapshot used for roomUpdate/gameStarted
// broadcasts and for acks that carry the room. Field names are the client
// contract.
type RoomState struct {
	RoomID    string   `json:"roomId"`
	Players   []Player `json:"players"`
	Blocks    []Block  `json:"blocks"`
	Stability int      `json:"stability"`
	TurnIndex int      `json:"turnIndex"`
	Started   bool     `json:"started"`
}

func newRoom(id string) *Room {
	return &Room{
		ID:        id,
		Players:   make([]Player, 0, 4),
		Blocks:    GenerateBlocks(),
		Stability: 100,
	}
}

// snapshot copies the player and block slices so the caller can hand the
// state off without holding the registry lock.
func (r *Room) snapshot() RoomState {
	players := make([]Player, len(r.Players))
	copy(players, r.Players)
	blocks := make([]Block, len(r.Blocks))
	copy(blocks, r.Blocks)
	return RoomState{
		RoomID:    r.ID,
		Players:   players,
		Blocks:    blocks,
		Stability: r.Stability,
		TurnIndex: r.TurnIndex,
		Started:   r.Started,
	}
}

func (r *Room) memberIDs() []string {
	ids := make([]string, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID
	}
	return ids
}

// removePlayer drops the player with the given connection id, if present,
// and keeps TurnIndex pointing at a valid seat afterwards.
func (r *Room) removePlayer(connID string) bool {
	for i, p := range r.Players {
		if p.ID == connID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			if r.TurnIndex >= len(r.Players) {
				r.TurnIndex = 0
			}
			return true
		}
	}
	return false
}
