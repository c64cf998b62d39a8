package telemetry

import (
	"log/slog"
	"sync"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// cannot drain this many events starts losing them, which the at-most-once
// contract allows.
const subscriberBuffer = 32

// Publisher is the outbound side of the broadcaster, consumed by the
// movement engine and the dispatch workflow.
type Publisher interface {
	Publish(event Event)
}

// Subscription is one subscriber's handle on the stream.
// Events arrive on C; Close unsubscribes and closes the channel.
type Subscription struct {
	C <-chan Event

	once  sync.Once
	close func()
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.close)
}

// Broadcaster fans telemetry events out to a global subscriber set and to
// sets scoped by order and by vehicle. Sends never block a publisher: a full
// subscriber channel drops the event for that subscriber only.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[Scope]map[uint64]chan Event
	nextID uint64
	logger *slog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[Scope]map[uint64]chan Event),
		logger: logger.With("component", "telemetry_broadcaster"),
	}
}

// Subscribe registers a subscriber for the given scope.
// The caller must Close the subscription when done; abandoned subscriptions
// keep consuming a map slot and silently drop events once full.
func (b *Broadcaster) Subscribe(scope Scope) *Subscription {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[scope] == nil {
		b.subs[scope] = make(map[uint64]chan Event)
	}
	b.subs[scope][id] = ch
	b.mu.Unlock()

	return &Subscription{
		C: ch,
		close: func() {
			b.mu.Lock()
			if set, ok := b.subs[scope]; ok {
				if _, ok := set[id]; ok {
					delete(set, id)
					close(ch)
				}
				if len(set) == 0 {
					delete(b.subs, scope)
				}
			}
			b.mu.Unlock()
		},
	}
}

// Publish fans the event out to the global scope, to the event's order scope
// (when it carries an order), and to its vehicle scope. Delivery is
// best-effort: subscribers that cannot keep up lose events rather than
// slowing the simulation down.
func (b *Broadcaster) Publish(event Event) {
	scopes := make([]Scope, 0, 3)
	scopes = append(scopes, GlobalScope())
	if event.OrderID != "" {
		scopes = append(scopes, OrderScope(event.OrderID))
	}
	if event.DroneID != "" {
		scopes = append(scopes, VehicleScope(event.DroneID))
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, scope := range scopes {
		for _, ch := range b.subs[scope] {
			select {
			case ch <- event:
			default:
				// Subscriber is full; at-most-once allows the drop.
			}
		}
	}
}

// SubscriberCount reports the number of live subscribers across all scopes.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := 0
	for _, set := range b.subs {
		total += len(set)
	}
	return total
}
