package terminal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	krnerrors "github.com/terassyi/krn08/internal/errors"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("attached", func(t *testing.T) {
		t.Parallel()
		term := New()
		ctx := NewContext(context.Background(), term)

		got, err := FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, term, got)
		assert.Same(t, term, MustFromContext(ctx))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := FromContext(context.Background())
		assert.ErrorIs(t, err, krnerrors.ErrTerminalMissing)
	})

	t.Run("nil terminal", func(t *testing.T) {
		t.Parallel()
		ctx := NewContext(context.Background(), nil)
		_, err := FromContext(ctx)
		assert.ErrorIs(t, err, krnerrors.ErrTerminalMissing)
	})

	t.Run("must panics", func(t *testing.T) {
		t.Parallel()
		assert.PanicsWithValue(t, krnerrors.ErrTerminalMissing, func() {
			MustFromContext(context.Background())
		})
	})
}

func TestNew(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 4, New().Store.Len())
	assert.Equal(t, 0, NewEmpty().Store.Len())
}
