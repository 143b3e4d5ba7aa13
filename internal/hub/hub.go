// Package hub fans game updates out to live box score viewers.
package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/okaytrev/softball-lineup/internal/constants"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/metrics"
)

type EventType string

const (
	EventSnapshot    EventType = "snapshot"
	EventAtBat       EventType = "at_bat"
	EventCorrection  EventType = "correction"
	EventGameEnded   EventType = "game_ended"
	EventGameCleared EventType = "game_cleared"
)

// Event is what viewers receive: what happened and the box score after it.
type Event struct {
	Type       EventType           `json:"type"`
	PlayerID   int                 `json:"playerId,omitempty"`
	PlayerName string              `json:"playerName,omitempty"`
	AtBat      *domain.AtBatRecord `json:"atBat,omitempty"`
	Game       domain.GameSnapshot `json:"game"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Hub owns the set of viewers. All membership changes and sends happen on
// the Run goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
	last       []byte

	metrics *metrics.Recorder
	logger  zerolog.Logger
}

func New(rec *metrics.Recorder, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, constants.LiveBroadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		metrics:    rec,
		logger:     logger,
	}
}

// Run serves the hub until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.Info().Msg("live hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.metrics.LiveClients(ctx, 1)
			if h.last != nil {
				c.TrySend(h.last)
			}
			h.logger.Debug().Str("client_id", c.ID).Int("total", len(h.clients)).Msg("live client connected")

		case c := <-h.unregister:
			h.remove(ctx, c)

		case message := <-h.broadcast:
			h.last = message
			for c := range h.clients {
				if !c.TrySend(message) {
					h.logger.Warn().Str("client_id", c.ID).Msg("live client too slow, disconnecting")
					h.remove(ctx, c)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event for every viewer. It never blocks the caller.
// When the queue is full the oldest queued event makes room, so the newest
// box score and a final game_ended or game_cleared always get through.
func (h *Hub) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	message, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(ev.Type)).Msg("failed to encode live event")
		return
	}
	for {
		select {
		case h.broadcast <- message:
			return
		default:
		}
		select {
		case <-h.broadcast:
			h.logger.Warn().Str("type", string(ev.Type)).Msg("live broadcast queue full, dropping oldest event")
		default:
		}
	}
}

// ClientCount reports connected viewers, or zero once the hub has stopped.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) remove(ctx context.Context, c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.LiveClients(ctx, -1)
	h.logger.Debug().Str("client_id", c.ID).Int("total", len(h.clients)).Msg("live client disconnected")
}

func (h *Hub) shutdown() {
	h.logger.Info().Int("clients", len(h.clients)).Msg("live hub stopping")
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func start(lc fx.Lifecycle, h *Hub) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go h.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-h.done
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(start),
)
