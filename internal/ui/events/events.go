package events

import (
	"sync"

	"compassai/internal/domain"
)

// Event names.
const (
	EventAuthChanged    = "auth:changed"
	EventDatasetUpdated = "dataset:updated"
	EventError          = "error"
)

// AuthReason says which action changed the session.
type AuthReason string

const (
	AuthReasonLogin   AuthReason = "login"
	AuthReasonSignup  AuthReason = "signup"
	AuthReasonLogout  AuthReason = "logout"
	AuthReasonProfile AuthReason = "profile"
	AuthReasonRefresh AuthReason = "refresh"
)

// AuthChanged is published after any action that may change the session user.
// User is nil when signed out.
type AuthChanged struct {
	User   *domain.Me `json:"user"`
	Reason AuthReason `json:"reason"`
}

// ErrorEvent represents an error event.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Bus fans events of one type out to subscribers. Channel subscribers that
// fall behind miss events; handlers run synchronously in Publish.
type Bus[T any] struct {
	name string

	mu       sync.RWMutex
	next     uint64
	chans    map[uint64]chan T
	handlers map[uint64]func(T)
}

func NewBus[T any](name string) *Bus[T] {
	return &Bus[T]{
		name:     name,
		chans:    make(map[uint64]chan T),
		handlers: make(map[uint64]func(T)),
	}
}

// Name returns the event name served by the bus.
func (b *Bus[T]) Name() string {
	return b.name
}

// Subscribe returns a buffered channel of events and a function that
// unsubscribes and closes it.
func (b *Bus[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)
	b.mu.Lock()
	id := b.next
	b.next++
	b.chans[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.chans, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}

// Handle registers fn for every event and returns its unregister function.
func (b *Bus[T]) Handle(fn func(T)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers event to every subscriber.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	handlers := make([]func(T), 0, len(b.handlers))
	for _, fn := range b.handlers {
		handlers = append(handlers, fn)
	}
	for _, ch := range b.chans {
		select {
		case ch <- event:
		default:
		}
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}

// Subscribers reports the number of active subscriptions.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.chans) + len(b.handlers)
}

// Hub groups the application's event buses.
type Hub struct {
	Auth    *Bus[AuthChanged]
	Dataset *Bus[domain.DatasetUpdate]
	Errors  *Bus[ErrorEvent]
}

func NewHub() *Hub {
	return &Hub{
		Auth:    NewBus[AuthChanged](EventAuthChanged),
		Dataset: NewBus[domain.DatasetUpdate](EventDatasetUpdated),
		Errors:  NewBus[ErrorEvent](EventError),
	}
}

// EmitError publishes an error event.
func (h *Hub) EmitError(code, message, details string) {
	if h == nil {
		return
	}
	h.Errors.Publish(ErrorEvent{Code: code, Message: message, Details: details})
}
