package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(raw, zerolog.Nop())
		hub.Register(conn)
		go conn.WritePump()
		conn.ReadPump(func(Message) error { return nil })
		hub.Unregister(conn.ID)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastAllReachesEveryConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := newHubServer(t, hub)

	first := dial(t, srv)
	second := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	msg, err := NewMessage(TypeQuestionCreated, map[string]int{"id": 7})
	require.NoError(t, err)
	require.NoError(t, hub.BroadcastAll(msg))

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got Message
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, TypeQuestionCreated, got.Type)
		assert.JSONEq(t, `{"id":7}`, string(got.Payload))
	}
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := newHubServer(t, hub)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewMessageWithoutPayload(t *testing.T) {
	msg, err := NewMessage(TypePong, nil)
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(data))
}
