package game

// Event names understood by clients.
const (
	EventRoomUpdate   = "roomUpdate"
	EventGameStarted  = "gameStarted"
	EventBlockRemoved = "blockRemoved"
	EventCollapse     = "collapse"
	EventTurnAdvanced = "turnAdvanced"
)

// Event is an abstract broadcast: the manager decides what happened and who
// should hear it, the transport layer performs the actual delivery.
// Recipients are connection ids captured under the registry lock.
type Event struct {
	Name       string
	Recipients []string
	Payload    interface{}
}

type BlockRemovedPayload struct {
	BlockID   int        `json:"blockId"`
	Color     BlockColor `json:"color"`
	Stability int        `json:"stability"`
}

type CollapsePayload struct {
	Message   string `json:"message"`
	Stability int    `json:"stability"`
}

type TurnAdvancedPayload struct {
	TurnIndex int `json:"turnIndex"`
}
