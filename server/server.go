package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rehoy/torre/game"
	"github.com/rehoy/torre/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server adapts the websocket transport onto the room manager: it assigns
// connection ids, decodes action envelopes, and delivers the events the
// manager emits to the right connections.
type Server struct {
	manager *game.Manager
	log     *logger.Logger

	clientsMu sync.RWMutex
	clients   map[string]*client
}

func New(manager *game.Manager, log *logger.Logger) *Server {
	return &Server{
		manager: manager,
		log:     log,
		clients: make(map[string]*client),
	}
}

func (s *Server) WsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Log("upgrade error:", err)
		return
	}

	c := newClient(uuid.NewString(), conn)
	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()
	go c.writePump()
	s.log.Log("client connected:", c.id)

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c.id)
		s.clientsMu.Unlock()
		close(c.done)
		conn.Close()
		s.broadcast(s.manager.Disconnect(c.id))
		s.log.Log("client disconnected:", c.id)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatch(c, msg)
	}
}

// dispatch decodes one frame and runs the action. A panic while handling an
// action is contained here: the client gets an internal-error ack and the
// connection and registry live on.
func (s *Server) dispatch(c *client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		s.log.Log("bad frame from", c.id, ":", err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Logf("panic handling %s from %s: %v", env.Type, c.id, r)
			s.ack(c, env.Type, Ack{Error: "internal error"})
		}
	}()

	s.handleAction(c, env)
}

func (s *Server) handleAction(c *client, env Envelope) {
	switch env.Type {
	case "createRoom":
		var p roomActionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.ack(c, env.Type, errAck(game.ErrInvalidRequest))
			return
		}
		state, events, err := s.manager.CreateRoom(p.RoomID, c.id, p.Name)
		if err != nil {
			s.ack(c, env.Type, errAck(err))
			return
		}
		s.log.Logf("room %s created by %s", p.RoomID, c.id)
		s.broadcast(events)
		s.ack(c, env.Type, roomAck(state))

	case "joinRoom":
		var p roomActionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.ack(c, env.Type, errAck(game.ErrInvalidRequest))
			return
		}
		state, events, err := s.manager.JoinRoom(p.RoomID, c.id, p.Name)
		if err != nil {
			s.ack(c, env.Type, errAck(err))
			return
		}
		s.log.Logf("client %s joined room %s", c.id, p.RoomID)
		s.broadcast(events)
		s.ack(c, env.Type, roomAck(state))

	case "startGame":
		var p roomActionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.ack(c, env.Type, errAck(game.ErrInvalidRequest))
			return
		}
		events, err := s.manager.StartGame(p.RoomID)
		if err != nil {
			s.ack(c, env.Type, errAck(err))
			return
		}
		s.broadcast(events)
		s.ack(c, env.Type, Ack{OK: true})

	case "removeBlock":
		var p removeBlockPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.ack(c, env.Type, errAck(game.ErrInvalidRequest))
			return
		}
		events, err := s.manager.RemoveBlock(p.RoomID, p.BlockID)
		if err != nil {
			s.ack(c, env.Type, errAck(err))
			return
		}
		s.broadcast(events)
		s.ack(c, env.Type, Ack{OK: true})

	case "confirmAction":
		var p roomActionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.ack(c, env.Type, errAck(game.ErrInvalidRequest))
			return
		}
		events, err := s.manager.ConfirmAction(p.RoomID)
		if err != nil {
			s.ack(c, env.Type, errAck(err))
			return
		}
		s.broadcast(events)
		s.ack(c, env.Type, Ack{OK: true})

	case "getRoom":
		var p roomActionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.ack(c, env.Type, errAck(game.ErrInvalidRequest))
			return
		}
		state, err := s.manager.GetRoom(p.RoomID)
		if err != nil {
			s.ack(c, env.Type, errAck(err))
			return
		}
		s.ack(c, env.Type, roomAck(state))

	case "leaveRoom":
		var p roomActionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.ack(c, env.Type, errAck(game.ErrInvalidRequest))
			return
		}
		events, err := s.manager.LeaveRoom(p.RoomID, c.id)
		if err != nil {
			s.ack(c, env.Type, errAck(err))
			return
		}
		s.broadcast(events)
		s.ack(c, env.Type, Ack{OK: true})

	default:
		s.log.Log("action type", env.Type, "not recognized")
		s.ack(c, env.Type, Ack{Error: "unknown action"})
	}
}

// ack answers the acting client directly, as "<action>Ack".
func (s *Server) ack(c *client, action string, a Ack) {
	env, err := newEnvelope(action+"Ack", a)
	if err != nil {
		s.log.Log("marshal ack for", action, ":", err)
		return
	}
	if !c.enqueue(env) {
		s.log.Log("dropped ack for slow client", c.id)
	}
}

// broadcast fans events out to their recipients. Delivery is fire-and-forget
// per recipient: an absent or slow member never fails the action for the
// rest of the room.
func (s *Server) broadcast(events []game.Event) {
	for _, evt := range events {
		env, err := newEnvelope(evt.Name, evt.Payload)
		if err != nil {
			s.log.Log("marshal event", evt.Name, ":", err)
			continue
		}
		s.clientsMu.RLock()
		for _, id := range evt.Recipients {
			c, ok := s.clients[id]
			if !ok {
				continue
			}
			if !c.enqueue(env) {
				s.log.Log("dropped", evt.Name, "for slow client", id)
			}
		}
		s.clientsMu.RUnlock()
	}
}
