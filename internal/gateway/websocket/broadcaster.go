package websocket

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	ws "github.com/harrypotter228/TaskManagement/pkg/websocket"
)

// EventBroadcaster forwards domain events from the bus to socket clients.
type EventBroadcaster struct {
	hub           *Hub
	mu            sync.Mutex
	subscriptions []bus.Subscription
	logger        *logger.Logger
}

// RegisterEventNotifications subscribes to the board-scoped event families.
// Per-user favorite events never reach sockets. The subscriptions are dropped
// when ctx is done.
func RegisterEventNotifications(ctx context.Context, eventBus bus.EventBus, hub *Hub, log *logger.Logger) (*EventBroadcaster, error) {
	b := &EventBroadcaster{
		hub:    hub,
		logger: log.WithFields(zap.String("component", "ws-event-broadcaster")),
	}
	if eventBus == nil {
		return b, nil
	}

	for _, subject := range events.BoardScoped() {
		sub, err := eventBus.Subscribe(subject, b.forward)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("subscribe %s: %w", subject, err)
		}
		b.mu.Lock()
		b.subscriptions = append(b.subscriptions, sub)
		b.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		b.Close()
	}()

	return b, nil
}

// Close removes all bus subscriptions.
func (b *EventBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subscriptions {
		if sub != nil && sub.IsValid() {
			_ = sub.Unsubscribe()
		}
	}
	b.subscriptions = nil
}

func (b *EventBroadcaster) forward(_ context.Context, event *bus.Event) error {
	if event == nil {
		return nil
	}
	msg, err := ws.NewNotification(event.Type, event.Data)
	if err != nil {
		b.logger.Error("failed to build notification",
			zap.String("event_type", event.Type),
			zap.Error(err))
		return nil
	}

	// Nobody can follow a board before it exists.
	if event.Type == events.BoardCreated {
		b.hub.Broadcast(msg)
		return nil
	}
	boardID := event.String("board_id")
	if boardID == "" {
		b.logger.Debug("dropping event without board_id", zap.String("event_type", event.Type))
		return nil
	}
	b.hub.BroadcastToBoard(boardID, msg)
	return nil
}
