package main

import (
	"context"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	gateways "github.com/harrypotter228/TaskManagement/internal/gateway/websocket"
	ws "github.com/harrypotter228/TaskManagement/pkg/websocket"
)

// Gateway is the realtime side of the server.
type Gateway struct {
	Hub         *gateways.Hub
	Handler     *gateways.Handler
	Broadcaster *gateways.EventBroadcaster
}

// provideGateway builds the hub and subscribes it to the bus. The hub loop is
// not started here; main runs it in its errgroup.
func provideGateway(ctx context.Context, eventBus bus.EventBus, log *logger.Logger) (*Gateway, error) {
	dispatcher := ws.NewDispatcher()
	gateways.RegisterHealthHandler(dispatcher)

	hub := gateways.NewHub(dispatcher, log)
	broadcaster, err := gateways.RegisterEventNotifications(ctx, eventBus, hub, log)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		Hub:         hub,
		Handler:     gateways.NewHandler(hub, log),
		Broadcaster: broadcaster,
	}, nil
}
