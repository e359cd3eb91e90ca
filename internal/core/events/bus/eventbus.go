package bus

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNilHandler = errors.New("event handler is nil")

type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates a simple Event implementation.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	active    bool
	bus       *frameBus
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active }

func (s *subscription) Cancel() error {
	if !s.active {
		return nil
	}
	s.active = false
	s.bus.remove(s)
	return nil
}

// frameBus keeps handlers per event type in subscription order.
type frameBus struct {
	handlers map[string][]*subscription
	metrics  EventBusMetrics
}

// New creates an empty EventBus.
func New() EventBus {
	return &frameBus{handlers: make(map[string][]*subscription)}
}

func (b *frameBus) Publish(event Event) error {
	if event == nil {
		return nil
	}
	b.metrics.Published++

	// Snapshot so handlers may subscribe or cancel while being delivered.
	subs := append([]*subscription(nil), b.handlers[event.Type()]...)
	var errs []error
	for _, s := range subs {
		if !s.active {
			continue
		}
		b.metrics.DeliveredHandlers++
		if err := s.handler(event); err != nil {
			b.metrics.Errors++
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *frameBus) PublishBatch(events ...Event) error {
	var errs []error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *frameBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	s := &subscription{
		id:        uuid.NewString(),
		eventType: eventType,
		handler:   handler,
		active:    true,
		bus:       b,
	}
	b.handlers[eventType] = append(b.handlers[eventType], s)
	return s, nil
}

func (b *frameBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *frameBus) SubscriberCount(eventType string) int {
	return len(b.handlers[eventType])
}

func (b *frameBus) GetMetrics() EventBusMetrics {
	return b.metrics
}

func (b *frameBus) remove(s *subscription) {
	subs := b.handlers[s.eventType]
	for i, cur := range subs {
		if cur == s {
			b.handlers[s.eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[s.eventType]) == 0 {
		delete(b.handlers, s.eventType)
	}
}
