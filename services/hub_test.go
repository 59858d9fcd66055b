package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type eventMessage struct {
	Type    string `json:"type"`
	Payload Event  `json:"payload"`
}

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		questionID, err := strconv.ParseUint(r.URL.Query().Get("question"), 10, 32)
		if err != nil {
			http.Error(w, "bad question", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(conn, uint(questionID))
	}))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return hub, server, cancel
}

func dial(t *testing.T, server *httptest.Server, questionID uint) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?question=" + strconv.FormatUint(uint64(questionID), 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, questionID uint, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount(questionID) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DeliversOnlyToWatchersOfQuestion(t *testing.T) {
	hub, server, _ := startHub(t)

	watcher := dial(t, server, 1)
	other := dial(t, server, 2)
	waitForClients(t, hub, 1, 1)
	waitForClients(t, hub, 2, 1)

	hub.Broadcast(Event{Type: EventAnswerCreated, QuestionID: 1, AnswerID: 5, At: time.Now().UTC()})

	var msg eventMessage
	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, watcher.ReadJSON(&msg))
	require.Equal(t, EventAnswerCreated, msg.Type)
	require.Equal(t, uint(1), msg.Payload.QuestionID)
	require.Equal(t, uint(5), msg.Payload.AnswerID)

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := other.ReadMessage()
	require.Error(t, err)
}

func TestHub_AnswersPing(t *testing.T) {
	hub, server, _ := startHub(t)

	conn := dial(t, server, 3)
	waitForClients(t, hub, 3, 1)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))

	var msg Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "pong", msg.Type)
}

func TestHub_QuestionDeletedClosesWatchers(t *testing.T) {
	hub, server, _ := startHub(t)

	conn := dial(t, server, 4)
	waitForClients(t, hub, 4, 1)

	hub.Broadcast(Event{Type: EventQuestionDeleted, QuestionID: 4})

	var msg eventMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, EventQuestionDeleted, msg.Type)

	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
	require.Equal(t, 0, hub.ClientCount(4))
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub, server, _ := startHub(t)

	conn := dial(t, server, 5)
	waitForClients(t, hub, 5, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 5, 0)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, server, cancel := startHub(t)

	conn := dial(t, server, 6)
	waitForClients(t, hub, 6, 1)

	cancel()
	waitForClients(t, hub, 6, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	// Broadcasting after the hub stopped must not block.
	hub.Broadcast(Event{Type: EventQuestionCreated, QuestionID: 6})
}

func TestHubPublisher_Publish(t *testing.T) {
	hub, server, _ := startHub(t)

	conn := dial(t, server, 7)
	waitForClients(t, hub, 7, 1)

	publisher := NewHubPublisher(hub)
	publish(context.Background(), publisher, Event{Type: EventAnswerDeleted, QuestionID: 7, AnswerID: 9})

	var msg eventMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, EventAnswerDeleted, msg.Type)
	require.Equal(t, uint(9), msg.Payload.AnswerID)
	require.False(t, msg.Payload.At.IsZero())
}
