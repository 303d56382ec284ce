package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/terassyi/krn08/internal/terminal"
)

// sender abstracts tea.Program.Send for testing.
type sender interface {
	Send(msg tea.Msg)
}

// subscriber is the part of terminal.Store the reporter observes.
type subscriber interface {
	Subscribe(fn terminal.Observer) func()
}

// Reporter bridges store events to Bubble Tea.
//
// The store delivers events synchronously, sometimes from inside Update
// (console toggle, clear, log records). tea.Program.Send blocks until the
// event loop reads the message, so the observer only queues the event and a
// forwarder goroutine sends it. Events reach the program in store order.
type Reporter struct {
	target sender
	wake   chan struct{}

	mu          sync.Mutex
	pending     []terminal.Event
	unsubscribe func()
	stop        chan struct{}
	done        chan struct{}
}

// NewReporter creates a reporter that forwards events to the given sender.
func NewReporter(target sender) *Reporter {
	return &Reporter{
		target: target,
		wake:   make(chan struct{}, 1),
	}
}

// Attach subscribes to s and starts forwarding. A previous subscription is
// dropped.
func (r *Reporter) Attach(s subscriber) {
	r.Detach()

	stop, done := make(chan struct{}), make(chan struct{})
	go r.forward(stop, done)

	unsubscribe := s.Subscribe(r.HandleEvent)

	r.mu.Lock()
	r.unsubscribe = unsubscribe
	r.stop, r.done = stop, done
	r.mu.Unlock()
}

// Detach unsubscribes, sends the events still queued and stops the
// forwarder. It is safe to call more than once.
func (r *Reporter) Detach() {
	r.mu.Lock()
	unsubscribe, stop, done := r.unsubscribe, r.stop, r.done
	r.unsubscribe, r.stop, r.done = nil, nil, nil
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if stop != nil {
		close(stop)
		<-done
	}
}

// HandleEvent queues a store event for the program. It never blocks.
func (r *Reporter) HandleEvent(event terminal.Event) {
	r.mu.Lock()
	r.pending = append(r.pending, event)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Reporter) forward(stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-r.wake:
			r.flush()
		case <-stop:
			r.flush()
			return
		}
	}
}

// flush sends every queued event in order.
func (r *Reporter) flush() {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, ev := range batch {
		r.target.Send(storeEventMsg{event: ev})
	}
}
