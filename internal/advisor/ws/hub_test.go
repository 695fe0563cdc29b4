package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	hub := NewHub(func(*http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", GameID: "g1"}))

	// ping/pong confirma que o subscribe foi processado antes do broadcast
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])

	hub.Broadcast(events.GameResult{
		GameID:    "g1",
		Sport:     "NBA",
		HomeTeam:  "Los Angeles Lakers",
		AwayTeam:  "Golden State Warriors",
		HomeScore: 110,
		AwayScore: 102,
		Ts:        time.Now().UTC(),
	})

	var msg ServerMsg
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "game_result", msg.Type)
	assert.Equal(t, "g1", msg.Payload.GameID)
	assert.Equal(t, 110, msg.Payload.HomeScore)
}

func TestHub_BroadcastOnlyToSubscribers(t *testing.T) {
	hub := NewHub(func(*http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", GameID: "g1"}))
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))

	// resultado de outro jogo não chega
	hub.Broadcast(events.GameResult{GameID: "g2"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg ServerMsg
	err := conn.ReadJSON(&msg)
	assert.Error(t, err)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(func(*http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", GameID: "g1"}))
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "unsubscribe", GameID: "g1"}))
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))

	hub.Broadcast(events.GameResult{GameID: "g1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg ServerMsg
	err := conn.ReadJSON(&msg)
	assert.Error(t, err)
}
