package brackets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomForTournament(t *testing.T) {
	assert.Equal(t, "tournament_42", RoomForTournament(42))
}

func TestHub_PublishReachesRoomClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 8), Room: RoomForTournament(7)}
		assert.True(t, hub.Register(client))
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount(RoomForTournament(7)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish(7, EventMatchRecorded, map[string]int{"winner_id": 1})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
		RoomID  string         `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, EventMatchRecorded, msg.Type)
	assert.Equal(t, "tournament_7", msg.RoomID)
	assert.Equal(t, 1, msg.Payload["winner_id"])
}

func TestHub_PublishWithoutClientsIsNoop(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() {
		hub.Publish(1, EventMatchesCleared, nil)
	})
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForTournament(3)}
	returned := make(chan bool, 1)
	go func() {
		ok := hub.Register(client)
		hub.Unregister(client)
		returned <- ok
	}()

	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("register/unregister blocked on a stopped hub")
	}
	assert.Zero(t, hub.ClientCount(RoomForTournament(3)))
}
