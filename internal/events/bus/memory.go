package bus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
)

// MemoryEventBus implements EventBus in process. Handlers run on their own goroutines.
type MemoryEventBus struct {
	subs   []*memorySubscription
	mu     sync.RWMutex
	logger *logger.Logger
	closed bool
	wg     sync.WaitGroup
}

type memorySubscription struct {
	bus     *MemoryEventBus
	subject string
	tokens  []string
	handler EventHandler

	mu     sync.Mutex
	active bool
}

// NewMemoryEventBus creates a new in-memory event bus
func NewMemoryEventBus(log *logger.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		logger: log.WithFields(zap.String("component", "memory-event-bus")),
	}
}

// Unsubscribe removes the subscription from the bus
func (s *memorySubscription) Unsubscribe() error {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
	s.bus.remove(s)
	return nil
}

// IsValid returns whether the subscription is still active
func (s *memorySubscription) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (b *MemoryEventBus) remove(target *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub == target {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
}

// Publish delivers the event to every matching subscription.
func (b *MemoryEventBus) Publish(ctx context.Context, subject string, event *Event) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("event bus is closed")
	}

	var targets []*memorySubscription
	for _, sub := range b.subs {
		if sub.IsValid() && matchSubject(sub.tokens, subject) {
			targets = append(targets, sub)
		}
	}
	b.wg.Add(len(targets))
	b.mu.Unlock()

	for _, sub := range targets {
		go func(s *memorySubscription) {
			defer b.wg.Done()
			if err := s.handler(ctx, event); err != nil {
				b.logger.Error("event handler error",
					zap.String("subject", subject),
					zap.String("pattern", s.subject),
					zap.Error(err))
			}
		}(sub)
	}

	b.logger.Debug("published event",
		zap.String("subject", subject),
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.Int("deliveries", len(targets)))
	return nil
}

// Subscribe creates a subscription to a subject pattern
func (b *MemoryEventBus) Subscribe(subject string, handler EventHandler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("event bus is closed")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	sub := &memorySubscription{
		bus:     b,
		subject: subject,
		tokens:  strings.Split(subject, "."),
		handler: handler,
		active:  true,
	}
	b.subs = append(b.subs, sub)

	b.logger.Debug("subscribed to subject", zap.String("subject", subject))
	return sub, nil
}

// Close deactivates every subscription and rejects further use.
func (b *MemoryEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.active = false
		sub.mu.Unlock()
	}
	b.logger.Info("memory event bus closed")
}

// Drain waits for in-flight handlers to return.
func (b *MemoryEventBus) Drain() {
	b.wg.Wait()
}

// IsConnected returns true until Close is called
func (b *MemoryEventBus) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.closed
}

// matchSubject reports whether subject matches the tokenized pattern.
// "*" matches exactly one token, a trailing ">" matches one or more tokens.
func matchSubject(pattern []string, subject string) bool {
	tokens := strings.Split(subject, ".")
	for i, p := range pattern {
		if p == ">" {
			return i == len(pattern)-1 && len(tokens) > i
		}
		if i >= len(tokens) {
			return false
		}
		if p != "*" && p != tokens[i] {
			return false
		}
	}
	return len(tokens) == len(pattern)
}
