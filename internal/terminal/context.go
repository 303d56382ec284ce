package terminal

import (
	"context"

	krnerrors "github.com/terassyi/krn08/internal/errors"
)

// Terminal bundles the store with the sequencer that writes to it.
type Terminal struct {
	Store     *Store
	Sequencer *Sequencer
}

// New creates a Terminal with a seeded store.
func New(opts ...Option) *Terminal {
	store := NewStore()
	return &Terminal{
		Store:     store,
		Sequencer: NewSequencer(store, opts...),
	}
}

// NewEmpty creates a Terminal whose store has no boot banner.
func NewEmpty(opts ...Option) *Terminal {
	store := NewEmptyStore()
	return &Terminal{
		Store:     store,
		Sequencer: NewSequencer(store, opts...),
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying t.
func NewContext(ctx context.Context, t *Terminal) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the Terminal attached to ctx, or ErrTerminalMissing.
func FromContext(ctx context.Context) (*Terminal, error) {
	t, ok := ctx.Value(contextKey{}).(*Terminal)
	if !ok || t == nil {
		return nil, krnerrors.ErrTerminalMissing
	}
	return t, nil
}

// MustFromContext is like FromContext but panics when no Terminal is attached.
func MustFromContext(ctx context.Context) *Terminal {
	t, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return t
}
