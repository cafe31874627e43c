package idx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jotterhq/jotter/pkg/idx"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("generates valid ulids", func(t *testing.T) {
		t.Parallel()

		id := idx.New()
		require.False(t, id.IsZero())
		require.Len(t, id.String(), 26)

		parsed, err := idx.Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("ids are unique and ordered", func(t *testing.T) {
		t.Parallel()

		prev := idx.New()
		for range 100 {
			next := idx.New()
			require.Greater(t, next.String(), prev.String())
			prev = next
		}
	})
}

func TestNewAt(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := idx.NewAt(at)

	require.Equal(t, at, id.Time())
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"", "   ", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FA"} {
			_, err := idx.Parse(s)
			require.ErrorIs(t, err, idx.ErrInvalid, "input %q", s)
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()

		id := idx.New()
		parsed, err := idx.Parse("  " + id.String() + " ")
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})
}

func TestTime(t *testing.T) {
	t.Parallel()

	t.Run("zero id has zero time", func(t *testing.T) {
		t.Parallel()
		require.True(t, idx.Zero.Time().IsZero())
	})

	t.Run("round trips through string form", func(t *testing.T) {
		t.Parallel()

		before := time.Now().UTC().Truncate(time.Millisecond)
		id := idx.New()
		after := time.Now().UTC()

		ts := id.Time()
		require.False(t, ts.Before(before))
		require.False(t, ts.After(after))
	})
}
