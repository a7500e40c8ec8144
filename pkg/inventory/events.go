package inventory

import (
	"sync"
	"time"
)

// EventType represents the type of inventory event.
type EventType int

const (
	// EventItemAdded is emitted when an item is placed.
	EventItemAdded EventType = iota
	// EventItemRemoved is emitted when an item is removed.
	EventItemRemoved
	// EventItemMoved is emitted when an item is relocated.
	EventItemMoved
	// EventCleared is emitted once when a non-empty inventory is cleared.
	EventCleared
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventItemAdded:
		return "ItemAdded"
	case EventItemRemoved:
		return "ItemRemoved"
	case EventItemMoved:
		return "ItemMoved"
	case EventCleared:
		return "Cleared"
	default:
		return "Unknown"
	}
}

// Event represents a single inventory notification. Item is nil and Position
// is the zero value for EventCleared. For EventItemRemoved, Position is the
// anchor the item occupied before removal.
type Event struct {
	Type      EventType
	Item      Item
	Position  Position
	Timestamp time.Time
}

// SubscriberID identifies a registered event handler.
type SubscriberID string

// Bus manages event subscriptions and delivery.
type Bus interface {
	// Subscribe registers a handler under the given id, replacing any
	// previous handler with the same id.
	Subscribe(id SubscriberID, handler func(Event))

	// Unsubscribe removes the handler registered under the id.
	Unsubscribe(id SubscriberID)

	// Publish delivers an event to every subscribed handler.
	Publish(event Event)
}

// SimpleBus is a basic in-memory event bus. Delivery is synchronous: Publish
// calls every handler before returning, so handlers observe the inventory in
// the state the triggering operation left it.
type SimpleBus struct {
	mu       sync.RWMutex
	handlers map[SubscriberID]func(Event)
}

// NewSimpleBus creates a new empty event bus.
func NewSimpleBus() *SimpleBus {
	return &SimpleBus{handlers: make(map[SubscriberID]func(Event))}
}

// Subscribe registers a handler under the given id.
func (bus *SimpleBus) Subscribe(id SubscriberID, handler func(Event)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[id] = handler
}

// Unsubscribe removes the handler registered under the id.
func (bus *SimpleBus) Unsubscribe(id SubscriberID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, id)
}

// Publish delivers the event to all handlers. Handlers run on the calling
// goroutine; they must not mutate the inventory that emitted the event.
func (bus *SimpleBus) Publish(event Event) {
	bus.mu.RLock()
	snapshot := make([]func(Event), 0, len(bus.handlers))
	for _, h := range bus.handlers {
		snapshot = append(snapshot, h)
	}
	bus.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

// NullBus is an event bus that does nothing. It is the default for
// inventories constructed without WithBus.
type NullBus struct{}

// NewNullBus creates a new null event bus.
func NewNullBus() *NullBus { return &NullBus{} }

// Subscribe does nothing.
func (bus *NullBus) Subscribe(id SubscriberID, handler func(Event)) {}

// Unsubscribe does nothing.
func (bus *NullBus) Unsubscribe(id SubscriberID) {}

// Publish does nothing.
func (bus *NullBus) Publish(event Event) {}
