package shell

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
	"github.com/alexisbeaulieu97/shelf/internal/state"
)

// Bridge forwards store notifications to a running program. Subscribers
// fire synchronously inside store mutations, often from within Update, so
// they only append to a queue; a single pump goroutine calls send in the
// order the mutations happened.
type Bridge struct {
	send func(tea.Msg)
	subs []ports.Subscription

	mu      sync.Mutex
	queue   []tea.Msg
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// NewBridge subscribes to the stores and starts forwarding to send, which is
// normally (*tea.Program).Send.
func NewBridge(theme *state.ThemeStore, auth *state.AuthStore, cart *state.CartStore, send func(tea.Msg)) *Bridge {
	b := &Bridge{
		send:    send,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	if cart != nil {
		b.subs = append(b.subs, cart.Subscribe(func(c shop.Cart) { b.push(CartChangedMsg{Cart: c}) }))
	}
	if auth != nil {
		b.subs = append(b.subs, auth.Subscribe(func(s shop.AuthState) { b.push(AuthChangedMsg{State: s}) }))
	}
	if theme != nil {
		b.subs = append(b.subs, theme.Subscribe(func(s state.ThemeSnapshot) { b.push(ThemeChangedMsg{Theme: s}) }))
	}
	go b.pump()
	return b
}

// WatchPreferenceFailures turns EventPreferenceFailed into an error status,
// so a theme that could not be saved does not go unnoticed. Call it before
// the program starts.
func (b *Bridge) WatchPreferenceFailures(publisher ports.EventPublisher) error {
	if publisher == nil {
		return nil
	}
	sub, err := publisher.Subscribe(ports.EventPreferenceFailed, func(context.Context, ports.DomainEvent) error {
		b.push(StatusMsg{Text: "Theme changed but could not be saved", Error: true})
		return nil
	})
	if err != nil {
		return err
	}
	b.subs = append(b.subs, sub)
	return nil
}

func (b *Bridge) push(msg tea.Msg) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, msg)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bridge) pump() {
	defer close(b.stopped)
	for range b.wake {
		for {
			b.mu.Lock()
			if len(b.queue) == 0 {
				closed := b.closed
				b.mu.Unlock()
				if closed {
					return
				}
				break
			}
			msg := b.queue[0]
			b.queue = b.queue[1:]
			b.mu.Unlock()
			b.send(msg)
		}
	}
}

// Close unsubscribes from the stores and stops the pump after pending
// messages are delivered. Close must not be called from send.
func (b *Bridge) Close() {
	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.stopped
		return
	}
	b.closed = true
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	<-b.stopped
}
