package ports

import "context"

const (
	// EventCartChanged is emitted after every applied cart mutation.
	EventCartChanged = "cart.changed"
	// EventAuthChanged is emitted when the user signs in or out.
	EventAuthChanged = "auth.changed"
	// EventThemeChanged is emitted after the theme is toggled.
	EventThemeChanged = "theme.changed"
	// EventPreferenceFailed is emitted when a preference cannot be persisted.
	EventPreferenceFailed = "preference.failed"
)

// DomainEvent represents a significant state change. Events carry structured
// payloads that downstream subscribers can use for logging or auditing.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Implementations must be
// thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Failures should be
// surfaced via returned errors so publishers can log diagnostics and continue
// delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving notifications. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Event is a plain DomainEvent implementation.
type Event struct {
	Type string
	Data map[string]interface{}
}

// EventType implements DomainEvent.
func (e Event) EventType() string { return e.Type }

// Payload implements DomainEvent.
func (e Event) Payload() interface{} { return e.Data }
