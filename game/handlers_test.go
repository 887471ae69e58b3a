package game

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeWS_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s, prompts := newTestSession(testSettings())
	prompts.On("Next").Return("ら")
	started := make(chan struct{})
	go s.Run(started)
	<-started

	r := gin.New()
	r.GET("/ws", NewHandler(s).ServeWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readMessage := func() map[string]any {
		conn.SetReadDeadline(time.Now().Add(time.Second * 2))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	// A new connection is greeted with its init snapshot, then the
	// players broadcast triggered by its own arrival.
	init := readMessage()
	assert.Equal(t, "init", init["type"])
	assert.Equal(t, "idle", init["gamePhase"])
	assert.EqualValues(t, 0, init["timeLeft"])

	players := readMessage()
	assert.Equal(t, "players", players["type"])
	assert.Empty(t, players["players"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"join","id":"alice"}`)))

	players = readMessage()
	assert.Equal(t, "players", players["type"])
	assert.Equal(t, []any{"alice"}, players["players"])

	notice := readMessage()
	assert.Equal(t, "chat", notice["type"])
	assert.Equal(t, "alice", notice["id"])
	assert.Equal(t, "entered the room", notice["text"])
}
