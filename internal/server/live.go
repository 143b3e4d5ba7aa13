package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/hub"
)

const LivePath = "/live"

// LiveHandler upgrades box score viewers onto the hub.
type LiveHandler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewLiveHandler(h *hub.Hub, logger zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// viewers open the page from anywhere, same as the CORS policy
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (l *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Warn().Err(err).Msg("live upgrade failed")
		return
	}

	c := hub.NewClient(uuid.NewString(), conn, l.hub)
	l.hub.Register(c)
	l.logger.Debug().Str("client_id", c.ID).Str("remote_addr", r.RemoteAddr).Msg("live viewer connected")

	go c.WritePump()
	go c.ReadPump()
}
