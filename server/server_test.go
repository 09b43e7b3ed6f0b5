package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rehoy/torre/game"
	"github.com/rehoy/torre/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	lg := logger.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	srv := New(game.NewManager(), lg)
	ts := httptest.NewServer(http.HandlerFunc(srv.WsHandler))
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendAction(t *testing.T, conn *websocket.Conn, actionType string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", actionType, err)
	}
	if err := conn.WriteJSON(Envelope{Type: actionType, Payload: raw}); err != nil {
		t.Fatalf("write %s: %v", actionType, err)
	}
}

// waitFor reads frames until one of the wanted type arrives, skipping
// whatever else the server interleaves.
func waitFor(t *testing.T, conn *websocket.Conn, eventType string) Envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("waiting for %s: %v", eventType, err)
		}
		if env.Type == eventType {
			return env
		}
	}
	t.Fatalf("timed out waiting for %s", eventType)
	return Envelope{}
}

func decodeAck(t *testing.T, env Envelope) Ack {
	t.Helper()
	var a Ack
	if err := json.Unmarshal(env.Payload, &a); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	return a
}

func TestCreateAndJoinOverWebsocket(t *testing.T) {
	ts := newTestServer(t)

	connA := dial(t, ts)
	sendAction(t, connA, "createRoom", map[string]interface{}{"roomId": "ABC", "name": "A"})

	ack := decodeAck(t, waitFor(t, connA, "createRoomAck"))
	if !ack.OK || ack.Room == nil {
		t.Fatalf("createRoom ack = %+v", ack)
	}
	if ack.Room.RoomID != "ABC" || ack.Room.Stability != 100 || len(ack.Room.Blocks) != game.TotalBlocks {
		t.Errorf("room in ack = %+v", ack.Room)
	}

	connB := dial(t, ts)
	sendAction(t, connB, "joinRoom", map[string]interface{}{"roomId": "ABC", "name": "B"})
	ack = decodeAck(t, waitFor(t, connB, "joinRoomAck"))
	if !ack.OK || ack.Room == nil || len(ack.Room.Players) != 2 {
		t.Fatalf("joinRoom ack = %+v", ack)
	}

	// The creator hears about the join.
	env := waitFor(t, connA, "roomUpdate")
	var state game.RoomState
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		t.Fatalf("decode roomUpdate: %v", err)
	}
	for len(state.Players) < 2 {
		env = waitFor(t, connA, "roomUpdate")
		if err := json.Unmarshal(env.Payload, &state); err != nil {
			t.Fatalf("decode roomUpdate: %v", err)
		}
	}
	if state.Players[1].Name != "B" {
		t.Errorf("second player = %+v", state.Players[1])
	}
}

func TestGameFlowBroadcasts(t *testing.T) {
	ts := newTestServer(t)

	connA := dial(t, ts)
	sendAction(t, connA, "createRoom", map[string]interface{}{"roomId": "flow", "name": "A"})
	waitFor(t, connA, "createRoomAck")

	connB := dial(t, ts)
	sendAction(t, connB, "joinRoom", map[string]interface{}{"roomId": "flow", "name": "B"})
	waitFor(t, connB, "joinRoomAck")

	sendAction(t, connA, "startGame", map[string]interface{}{"roomId": "flow"})
	waitFor(t, connB, "gameStarted")

	sendAction(t, connA, "removeBlock", map[string]interface{}{"roomId": "flow", "blockId": 1})
	env := waitFor(t, connB, "blockRemoved")
	var removed game.BlockRemovedPayload
	if err := json.Unmarshal(env.Payload, &removed); err != nil {
		t.Fatalf("decode blockRemoved: %v", err)
	}
	if removed.BlockID != 1 || removed.Color != game.ColorTier1 || removed.Stability != 98 {
		t.Errorf("blockRemoved = %+v, want blockId=1 color=tier1 stability=98", removed)
	}

	sendAction(t, connA, "confirmAction", map[string]interface{}{"roomId": "flow"})
	env = waitFor(t, connB, "turnAdvanced")
	var turn game.TurnAdvancedPayload
	if err := json.Unmarshal(env.Payload, &turn); err != nil {
		t.Fatalf("decode turnAdvanced: %v", err)
	}
	if turn.TurnIndex != 1 {
		t.Errorf("turnIndex = %d, want 1", turn.TurnIndex)
	}
}

func TestErrorAcks(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	sendAction(t, conn, "joinRoom", map[string]interface{}{"roomId": "nowhere", "name": "A"})
	ack := decodeAck(t, waitFor(t, conn, "joinRoomAck"))
	if ack.OK || ack.Error != "room not found" {
		t.Errorf("joinRoom ack = %+v", ack)
	}

	sendAction(t, conn, "createRoom", map[string]interface{}{"roomId": "dup", "name": "A"})
	waitFor(t, conn, "createRoomAck")
	sendAction(t, conn, "createRoom", map[string]interface{}{"roomId": "dup", "name": "A"})
	ack = decodeAck(t, waitFor(t, conn, "createRoomAck"))
	if ack.OK || ack.Error != "room exists" {
		t.Errorf("duplicate createRoom ack = %+v", ack)
	}

	sendAction(t, conn, "bogusAction", map[string]interface{}{})
	ack = decodeAck(t, waitFor(t, conn, "bogusActionAck"))
	if ack.OK {
		t.Errorf("bogus action acked ok: %+v", ack)
	}
}

func TestDisconnectCleansUpRoom(t *testing.T) {
	ts := newTestServer(t)

	connA := dial(t, ts)
	sendAction(t, connA, "createRoom", map[string]interface{}{"roomId": "gone", "name": "A"})
	waitFor(t, connA, "createRoomAck")

	connB := dial(t, ts)
	sendAction(t, connB, "joinRoom", map[string]interface{}{"roomId": "gone", "name": "B"})
	waitFor(t, connB, "joinRoomAck")

	connA.Close()

	// B sees the shrunk room once the server runs the disconnect sweep.
	deadline := time.Now().Add(2 * time.Second)
	for {
		env := waitFor(t, connB, "roomUpdate")
		var state game.RoomState
		if err := json.Unmarshal(env.Payload, &state); err != nil {
			t.Fatalf("decode roomUpdate: %v", err)
		}
		if len(state.Players) == 1 && state.Players[0].Name == "B" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("never saw single-player roomUpdate, last state %+v", state)
		}
	}
}
