package server

import (
	"encoding/json"

	"github.com/rehoy/torre/game"
)

// Envelope is the wire frame in both directions: actions from clients,
// acks and broadcasts from the server.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newEnvelope(eventType string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: eventType, Payload: raw}, nil
}

// roomActionPayload covers every action addressed at a room by id;
// createRoom and joinRoom also carry the display name.
type roomActionPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name,omitempty"`
}

type removeBlockPayload struct {
	RoomID  string `json:"roomId"`
	BlockID int    `json:"blockId"`
}

// Ack is the acknowledgement sent back to the acting client, as the payload
// of an "<action>Ack" envelope.
type Ack struct {
	OK    bool            `json:"ok"`
	Room  *game.RoomState `json:"room,omitempty"`
	Error string          `json:"error,omitempty"`
}

func errAck(err error) Ack {
	return Ack{Error: err.Error()}
}

func roomAck(state game.RoomState) Ack {
	return Ack{OK: true, Room: &state}
}
