package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"brain-battle/internal/app"
	"brain-battle/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.Service
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWSHandler(service *app.Service, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type answerPayload struct {
	Label string `json:"label"`
}

type loggedInPayload struct {
	SessionID string           `json:"sessionId"`
	State     domain.GameState `json:"state"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// connection tracks the session a single websocket is playing.
type connection struct {
	h         *WSHandler
	r         *http.Request
	send      chan outboundMessage[any]
	sessionID string
	events    <-chan domain.Event
	cancelSub func()
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
// A connection owns at most one session; closing the socket logs the player out.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	c := &connection{h: h, r: r, send: make(chan outboundMessage[any], 16)}
	writerDone := make(chan struct{})

	// Single writer; after a failed write it keeps draining so producers never block.
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range c.send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "err", err)
				failed = true
				_ = conn.Close()
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		c.handle(inbound)
		c.flushEvents()
	}

	c.logout()
	close(c.send)
	<-writerDone
}

func (c *connection) handle(in inboundMessage) {
	ctx := c.r.Context()
	switch in.Type {
	case "signup":
		var p credentialsPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			c.sendError("invalid_input", "invalid signup payload")
			return
		}
		if err := c.h.service.Signup(ctx, p.Username, p.Password); err != nil {
			c.fail(err)
			return
		}
		c.reply("signedUp", map[string]string{"username": p.Username})

	case "login":
		var p credentialsPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			c.sendError("invalid_input", "invalid login payload")
			return
		}
		id, state, err := c.h.service.Login(ctx, p.Username, p.Password)
		if err != nil {
			c.fail(err)
			return
		}
		c.logout()
		c.attach(id)
		c.reply("loggedIn", loggedInPayload{SessionID: id, State: state})

	case "logout":
		if !c.requireSession() {
			return
		}
		c.logout()
		c.reply("loggedOut", struct{}{})

	case "start":
		if !c.requireSession() {
			return
		}
		state, err := c.h.service.StartGame(ctx, c.sessionID)
		c.replyState(state, err)

	case "answer":
		if !c.requireSession() {
			return
		}
		var p answerPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			c.sendError("invalid_input", "invalid answer payload")
			return
		}
		label, err := domain.ParseLabel(p.Label)
		if err != nil {
			c.fail(err)
			return
		}
		outcome, err := c.h.service.SubmitAnswer(ctx, c.sessionID, label)
		if err != nil {
			c.fail(err)
			return
		}
		c.reply("answerResult", outcome)

	case "acknowledge":
		if !c.requireSession() {
			return
		}
		state, err := c.h.service.AcknowledgeRankRoom(ctx, c.sessionID)
		c.replyState(state, err)

	case "state":
		if !c.requireSession() {
			return
		}
		state, err := c.h.service.State(ctx, c.sessionID)
		c.replyState(state, err)

	default:
		c.sendError("unsupported", "unsupported message type")
	}
}

// attach subscribes the connection to the session's notifications.
func (c *connection) attach(sessionID string) {
	c.sessionID = sessionID
	events, cancel, err := c.h.service.Subscribe(c.r.Context(), sessionID)
	if err != nil {
		c.h.logger.Warn("subscribe failed", "session", sessionID, "err", err)
		return
	}
	c.events = events
	c.cancelSub = cancel
}

// flushEvents forwards the notifications raised by the last command, after its reply.
// A command raises at most three events, so the subscription buffer never overflows
// between flushes.
func (c *connection) flushEvents() {
	for c.events != nil {
		select {
		case ev, ok := <-c.events:
			if !ok {
				c.events = nil
				return
			}
			c.send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev}
		default:
			return
		}
	}
}

func (c *connection) logout() {
	if c.cancelSub != nil {
		c.cancelSub()
		c.cancelSub = nil
		c.events = nil
	}
	if c.sessionID != "" {
		_ = c.h.service.Logout(c.r.Context(), c.sessionID)
		c.sessionID = ""
	}
}

func (c *connection) requireSession() bool {
	if c.sessionID == "" {
		c.sendError("not_authenticated", "login required")
		return false
	}
	return true
}

func (c *connection) replyState(state domain.GameState, err error) {
	if err != nil {
		c.fail(err)
		return
	}
	c.reply("state", state)
}

func (c *connection) reply(typ string, payload any) {
	c.send <- outboundMessage[any]{Type: typ, Payload: payload}
}

func (c *connection) fail(err error) {
	c.sendError(errorCode(err), err.Error())
}

func (c *connection) sendError(code, message string) {
	c.send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: code, Message: message}}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrDuplicateUser):
		return "duplicate_user"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	default:
		return "internal"
	}
}
