package feed

import (
	"net/http"

	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Handler serves the live question feed on /ws/questions.
type Handler struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

func NewHandler(hub *ws.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger.With().Str("component", "feed_ws").Logger(),
	}
}

// HandleWebSocket upgrades the request and streams question events until the
// client disconnects.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	raw, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := ws.NewConnection(raw, h.logger)
	h.hub.Register(conn)
	defer h.hub.Unregister(conn.ID)

	go conn.WritePump()

	if welcome, err := ws.NewMessage(ws.TypeWelcome, ws.WelcomePayload{ConnectionID: conn.ID.String()}); err == nil {
		_ = conn.Send(welcome)
	}

	conn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypePing:
			return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		default:
			reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
				Code:    "unsupported_message",
				Message: "the question feed is read-only",
			})
			if err != nil {
				return err
			}
			reply.RequestID = msg.RequestID
			return conn.Send(reply)
		}
	})
}
