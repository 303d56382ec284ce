package terminal

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies which mutation an Event reports.
type EventType int

const (
	EventAppend EventType = iota
	EventClear
	EventVisibility
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventAppend:
		return "append"
	case EventClear:
		return "clear"
	case EventVisibility:
		return "visibility"
	default:
		return "unknown"
	}
}

// Event describes one store mutation.
type Event struct {
	Type EventType
	// Entry is set for EventAppend.
	Entry Entry
	// Visible is the panel state after the mutation.
	Visible bool
}

// Observer is called after every store mutation.
type Observer func(Event)

type observerSlot struct {
	id uint64
	fn Observer
}

// Store holds the ordered log and the panel visibility flag.
//
// Observers run after the mutation is committed, outside the data lock, so an
// observer may read the store. Deliveries are serialized in mutation order.
// Observers must not mutate the store from inside the callback.
type Store struct {
	// notifyMu is held across mutate+deliver so observers see events in order.
	notifyMu sync.Mutex

	mu        sync.Mutex
	entries   []Entry
	visible   bool
	lastAt    time.Time
	observers []observerSlot
	nextID    uint64

	now   func() time.Time
	newID func() string
}

// NewStore creates a store seeded with the boot banner and the panel open.
func NewStore() *Store {
	s := NewEmptyStore()
	for _, l := range seedLines {
		s.entries = append(s.entries, s.newEntry(l.text, l.kind))
	}
	return s
}

// NewEmptyStore creates a store with no entries and the panel open.
func NewEmptyStore() *Store {
	return &Store{
		visible: true,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// newEntry builds an entry with a fresh id and a creation time strictly
// after the previous entry. Must be called with s.mu held.
func (s *Store) newEntry(text string, kind Kind) Entry {
	at := s.now()
	if !at.After(s.lastAt) {
		at = s.lastAt.Add(time.Nanosecond)
	}
	s.lastAt = at
	return Entry{
		ID:        s.newID(),
		Text:      text,
		Kind:      kind,
		CreatedAt: at,
	}
}

// Append adds a new entry to the end of the log and returns it.
// An empty kind is stored as KindInfo.
func (s *Store) Append(text string, kind Kind) Entry {
	if kind == "" {
		kind = KindInfo
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	e := s.newEntry(text, kind)
	s.entries = append(s.entries, e)
	ev := Event{Type: EventAppend, Entry: e, Visible: s.visible}
	obs := s.observersLocked()
	s.mu.Unlock()

	deliver(obs, ev)
	return e
}

// Clear empties the log. Visibility is left unchanged.
func (s *Store) Clear() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.entries = nil
	ev := Event{Type: EventClear, Visible: s.visible}
	obs := s.observersLocked()
	s.mu.Unlock()

	deliver(obs, ev)
}

// SetVisible sets the panel visibility flag.
func (s *Store) SetVisible(open bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.visible = open
	ev := Event{Type: EventVisibility, Visible: open}
	obs := s.observersLocked()
	s.mu.Unlock()

	deliver(obs, ev)
}

// ToggleVisible flips the panel visibility flag and returns the new value.
func (s *Store) ToggleVisible() bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.visible = !s.visible
	ev := Event{Type: EventVisibility, Visible: s.visible}
	obs := s.observersLocked()
	s.mu.Unlock()

	deliver(obs, ev)
	return ev.Visible
}

// Entries returns a copy of the log in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Visible returns the panel visibility flag.
func (s *Store) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Subscribe registers an observer and returns a function that removes it.
// The returned function is safe to call more than once.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observerSlot{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// observersLocked returns a copy of the registered observers.
// Must be called with s.mu held.
func (s *Store) observersLocked() []Observer {
	if len(s.observers) == 0 {
		return nil
	}
	out := make([]Observer, len(s.observers))
	for i, o := range s.observers {
		out[i] = o.fn
	}
	return out
}

func deliver(obs []Observer, ev Event) {
	for _, fn := range obs {
		fn(ev)
	}
}
