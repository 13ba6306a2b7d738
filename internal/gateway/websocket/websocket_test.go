package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	ws "github.com/harrypotter228/TaskManagement/pkg/websocket"
)

type gateway struct {
	hub    *Hub
	bus    *bus.MemoryEventBus
	server *httptest.Server
	cancel context.CancelFunc
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher := ws.NewDispatcher()
	RegisterHealthHandler(dispatcher)
	hub := NewHub(dispatcher, log)
	go hub.Run(ctx)

	eventBus := bus.NewMemoryEventBus(log)
	_, err := RegisterEventNotifications(ctx, eventBus, hub, log)
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router, NewHandler(hub, log))
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		cancel()
		server.Close()
		eventBus.Close()
	})
	return &gateway{hub: hub, bus: eventBus, server: server, cancel: cancel}
}

func (g *gateway) dial(t *testing.T) *gorillaws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(g.server.URL, "http") + "/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *gorillaws.Conn, id, action string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(ws.Message{ID: id, Type: ws.MessageTypeRequest, Action: action, Payload: raw}))
}

func read(t *testing.T, conn *gorillaws.Conn) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func errorCode(t *testing.T, msg ws.Message) string {
	t.Helper()
	require.Equal(t, ws.MessageTypeError, msg.Type)
	var payload ws.ErrorPayload
	require.NoError(t, msg.ParsePayload(&payload))
	return payload.Code
}

func subscribe(t *testing.T, conn *gorillaws.Conn, boardID string) {
	t.Helper()
	send(t, conn, "sub-"+boardID, ws.ActionBoardSubscribe, SubscribeRequest{BoardID: boardID})
	resp := read(t, conn)
	require.Equal(t, ws.MessageTypeResponse, resp.Type)
	require.Equal(t, "sub-"+boardID, resp.ID)
}

func publish(t *testing.T, b bus.EventBus, eventType string, data map[string]interface{}) {
	t.Helper()
	require.NoError(t, b.Publish(context.Background(), eventType, bus.NewEvent(eventType, "test", data)))
}

func TestGateway_ForwardsBoardEventsToSubscribers(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)
	subscribe(t, conn, "board-1")

	publish(t, g.bus, events.TaskCreated, map[string]interface{}{"board_id": "board-1", "task_id": "t1"})

	msg := read(t, conn)
	assert.Equal(t, ws.MessageTypeNotification, msg.Type)
	assert.Equal(t, events.TaskCreated, msg.Action)
	var payload map[string]interface{}
	require.NoError(t, msg.ParsePayload(&payload))
	assert.Equal(t, "t1", payload["task_id"])
}

func TestGateway_SkipsOtherBoards(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)
	subscribe(t, conn, "board-1")

	publish(t, g.bus, events.TaskDeleted, map[string]interface{}{"board_id": "board-2", "task_id": "t2"})
	g.bus.Drain()
	publish(t, g.bus, events.TaskDeleted, map[string]interface{}{"board_id": "board-1", "task_id": "t1"})

	msg := read(t, conn)
	assert.Equal(t, events.TaskDeleted, msg.Action)
	var payload map[string]interface{}
	require.NoError(t, msg.ParsePayload(&payload))
	assert.Equal(t, "t1", payload["task_id"])
}

func TestGateway_FavoritesStayPrivate(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)
	subscribe(t, conn, "board-1")

	publish(t, g.bus, events.FavoriteAdded, map[string]interface{}{"user_id": "u1", "task_id": "t1"})
	publish(t, g.bus, events.FavoriteRemoved, map[string]interface{}{"user_id": "u1", "task_id": "t1", "board_id": "board-1"})
	publish(t, g.bus, events.TaskUpdated, map[string]interface{}{"task_id": "t9"})
	g.bus.Drain()
	publish(t, g.bus, events.BoardCreated, map[string]interface{}{"board_id": "board-new", "name": "New"})

	// The first thing that arrives is the new board, sent to every client.
	msg := read(t, conn)
	assert.Equal(t, events.BoardCreated, msg.Action)
}

func TestGateway_Unsubscribe(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)
	subscribe(t, conn, "board-1")
	require.Equal(t, 1, g.hub.SubscriberCount("board-1"))

	send(t, conn, "u", ws.ActionBoardUnsubscribe, SubscribeRequest{BoardID: "board-1"})
	resp := read(t, conn)
	assert.Equal(t, ws.MessageTypeResponse, resp.Type)
	assert.Equal(t, 0, g.hub.SubscriberCount("board-1"))
}

func TestGateway_RequestErrors(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)

	send(t, conn, "1", ws.ActionBoardSubscribe, SubscribeRequest{BoardID: "  "})
	assert.Equal(t, ws.ErrorCodeValidation, errorCode(t, read(t, conn)))

	send(t, conn, "2", "board.delete", nil)
	assert.Equal(t, ws.ErrorCodeUnknownAction, errorCode(t, read(t, conn)))

	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte("{not json")))
	assert.Equal(t, ws.ErrorCodeBadRequest, errorCode(t, read(t, conn)))
}

func TestGateway_HealthCheck(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)

	send(t, conn, "h", ws.ActionHealthCheck, nil)
	resp := read(t, conn)
	assert.Equal(t, ws.MessageTypeResponse, resp.Type)
	var payload map[string]string
	require.NoError(t, resp.ParsePayload(&payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestGateway_DisconnectUnregisters(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)
	subscribe(t, conn, "board-1")
	require.Equal(t, 1, g.hub.GetClientCount())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return g.hub.GetClientCount() == 0 && g.hub.SubscriberCount("board-1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGateway_ShutdownClosesClients(t *testing.T) {
	g := newGateway(t)
	conn := g.dial(t)
	subscribe(t, conn, "board-1")

	g.cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, gorillaws.IsCloseError(err, gorillaws.CloseNormalClosure, gorillaws.CloseNoStatusReceived),
		"unexpected error: %v", err)
	assert.False(t, g.hub.Register(NewClient("late", nil, g.hub, logger.NewNop())))
}
