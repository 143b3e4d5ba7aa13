package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaytrev/softball-lineup/internal/hub"
)

func TestLiveViewerGetsEvents(t *testing.T) {
	h := hub.New(nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	srv := httptest.NewServer(NewLiveHandler(h, zerolog.Nop()))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+LivePath, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.Publish(hub.Event{Type: hub.EventGameCleared})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev hub.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, hub.EventGameCleared, ev.Type)
}

func TestLiveRejectsPlainHTTP(t *testing.T) {
	h := hub.New(nil, zerolog.Nop())
	rec := httptest.NewRecorder()
	NewLiveHandler(h, zerolog.Nop()).ServeHTTP(rec, httptest.NewRequest("GET", LivePath, nil))
	assert.Equal(t, 400, rec.Code)
}
