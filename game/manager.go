package game

import "sync"

const collapseMessage = "La torre ha caído"

const defaultPlayerName = "Jugador"

// Manager owns the room registry. It is instantiated once at process start
// and passed by handle to the transport layer; one coarse lock covers the
// registry and every room in it, and each operation mutates under it as an
// atomic unit.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewManager() *Manager {
	return &Manager{rooms: make(map[string]*Room)}
}

// CreateRoom allocates a fresh tower under roomID with the caller as the
// first player. The returned snapshot goes into the caller's ack, the events
// to the room (just the creator, at this point).
func (m *Manager) CreateRoom(roomID, connID, name string) (RoomState, []Event, error) {
	if roomID == "" {
		return RoomState{}, nil, ErrInvalidRequest
	}
	if name == "" {
		name = defaultPlayerName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; ok {
		return RoomState{}, nil, ErrRoomExists
	}

	room := newRoom(roomID)
	room.Players = append(room.Players, Player{ID: connID, Name: name})
	m.rooms[roomID] = room

	state := room.snapshot()
	events := []Event{{Name: EventRoomUpdate, Recipients: room.memberIDs(), Payload: state}}
	return state, events, nil
}

// JoinRoom appends the caller to the room's seat order. Joining a game that
// has already started is allowed.
func (m *Manager) JoinRoom(roomID, connID, name string) (RoomState, []Event, error) {
	if name == "" {
		name = defaultPlayerName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return RoomState{}, nil, ErrRoomNotFound
	}

	room.Players = append(room.Players, Player{ID: connID, Name: name})

	state := room.snapshot()
	events := []Event{{Name: EventRoomUpdate, Recipients: room.memberIDs(), Payload: state}}
	return state, events, nil
}

func (m *Manager) StartGame(roomID string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.Started = true
	room.TurnIndex = 0

	return []Event{{Name: EventGameStarted, Recipients: room.memberIDs(), Payload: room.snapshot()}}, nil
}

// RemoveBlock marks the block removed and charges its color penalty against
// stability, floored at 0. The collapse event fires exactly once, on the
// transition to 0; removals stay permitted afterwards.
func (m *Manager) RemoveBlock(roomID string, blockID int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if blockID < 1 || blockID > len(room.Blocks) {
		return nil, ErrBlockNotFound
	}
	block := &room.Blocks[blockID-1]
	if block.Removed {
		return nil, ErrBlockAlreadyRemoved
	}

	block.Removed = true
	before := room.Stability
	room.Stability -= block.Color.Penalty()
	if room.Stability < 0 {
		room.Stability = 0
	}

	members := room.memberIDs()
	events := []Event{{
		Name:       EventBlockRemoved,
		Recipients: members,
		Payload: BlockRemovedPayload{
			BlockID:   blockID,
			Color:     block.Color,
			Stability: room.Stability,
		},
	}}
	if room.Stability == 0 && before > 0 {
		events = append(events, Event{
			Name:       EventCollapse,
			Recipients: members,
			Payload:    CollapsePayload{Message: collapseMessage, Stability: 0},
		})
	}
	return events, nil
}

// ConfirmAction advances the turn to the next seat, wrapping around.
func (m *Manager) ConfirmAction(roomID string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if len(room.Players) == 0 {
		return nil, ErrNoPlayers
	}

	room.TurnIndex = (room.TurnIndex + 1) % len(room.Players)

	return []Event{{
		Name:       EventTurnAdvanced,
		Recipients: room.memberIDs(),
		Payload:    TurnAdvancedPayload{TurnIndex: room.TurnIndex},
	}}, nil
}

func (m *Manager) GetRoom(roomID string) (RoomState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return RoomState{}, ErrRoomNotFound
	}
	return room.snapshot(), nil
}

// LeaveRoom removes the caller's seat and tells the remaining members. A
// room with nobody left in it is deleted from the registry.
func (m *Manager) LeaveRoom(roomID, connID string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.removePlayer(connID)
	if len(room.Players) == 0 {
		delete(m.rooms, roomID)
		return nil, nil
	}

	return []Event{{Name: EventRoomUpdate, Recipients: room.memberIDs(), Payload: room.snapshot()}}, nil
}

// Disconnect sweeps a dropped connection out of every room it sat in. Called
// by the transport layer, not by a client action, so it cannot fail: rooms
// that end up empty are deleted, the rest get a roomUpdate.
func (m *Manager) Disconnect(connID string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []Event
	for id, room := range m.rooms {
		if !room.removePlayer(connID) {
			continue
		}
		if len(room.Players) == 0 {
			delete(m.rooms, id)
			continue
		}
		events = append(events, Event{Name: EventRoomUpdate, Recipients: room.memberIDs(), Payload: room.snapshot()})
	}
	return events
}
