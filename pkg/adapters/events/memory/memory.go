package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aescanero/kdpniche/pkg/domain"
	"github.com/aescanero/kdpniche/pkg/ports"
)

// DefaultQueueSize is the number of events buffered per subscriber
const DefaultQueueSize = 256

// InMemoryEventBus implements EventBus using in-process handlers.
//
// Every subscriber owns a queue drained by a single goroutine, so each
// handler sees events in publish order. A subscriber whose queue is full
// misses the event and Publish reports the drop.
type InMemoryEventBus struct {
	subscribers map[string]map[uint64]*subscription
	nextID      uint64
	queueSize   int
	mu          sync.RWMutex
}

type queuedEvent struct {
	ctx   context.Context
	event domain.AnalysisEvent
}

type subscription struct {
	handler ports.EventHandler
	queue   chan queuedEvent
	done    chan struct{}
	once    sync.Once
}

func (s *subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case q := <-s.queue:
			_ = s.handler(q.ctx, q.event)
		}
	}
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus() *InMemoryEventBus {
	return NewInMemoryEventBusWithQueueSize(DefaultQueueSize)
}

// NewInMemoryEventBusWithQueueSize creates an in-memory event bus buffering
// size events per subscriber
func NewInMemoryEventBusWithQueueSize(size int) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string]map[uint64]*subscription),
		queueSize:   size,
	}
}

// Publish queues an event for every subscriber of a topic
func (e *InMemoryEventBus) Publish(ctx context.Context, topic string, event domain.AnalysisEvent) error {
	// Handlers run detached from the publisher's request.
	q := queuedEvent{ctx: context.WithoutCancel(ctx), event: event}

	e.mu.RLock()
	defer e.mu.RUnlock()

	dropped := 0
	for _, sub := range e.subscribers[topic] {
		select {
		case sub.queue <- q:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		return fmt.Errorf("event %s dropped for %d slow subscribers", event.ID, dropped)
	}
	return nil
}

// Subscribe subscribes to events on a specific topic until ctx is done
func (e *InMemoryEventBus) Subscribe(ctx context.Context, topic string, handler ports.EventHandler) error {
	sub := &subscription{
		handler: handler,
		queue:   make(chan queuedEvent, e.queueSize),
		done:    make(chan struct{}),
	}

	e.mu.Lock()
	if e.subscribers[topic] == nil {
		e.subscribers[topic] = make(map[uint64]*subscription)
	}
	id := e.nextID
	e.nextID++
	e.subscribers[topic][id] = sub
	e.mu.Unlock()

	go sub.run()

	go func() {
		select {
		case <-ctx.Done():
			e.unsubscribe(topic, id)
		case <-sub.done:
		}
	}()

	return nil
}

// Ping always succeeds
func (e *InMemoryEventBus) Ping(ctx context.Context) error {
	return nil
}

// Close stops and drops all subscribers
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, subs := range e.subscribers {
		for _, sub := range subs {
			sub.stop()
		}
	}
	e.subscribers = make(map[string]map[uint64]*subscription)
	return nil
}

// SubscriberCount returns the number of handlers on topic
func (e *InMemoryEventBus) SubscriberCount(topic string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.subscribers[topic])
}

func (e *InMemoryEventBus) unsubscribe(topic string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sub, ok := e.subscribers[topic][id]; ok {
		sub.stop()
		delete(e.subscribers[topic], id)
	}
	if len(e.subscribers[topic]) == 0 {
		delete(e.subscribers, topic)
	}
}
