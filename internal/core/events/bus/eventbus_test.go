package bus

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	t.Run("Delivers by type", func(t *testing.T) {
		b := New()
		var got []any
		_, err := b.Subscribe("step", func(e Event) error {
			got = append(got, e.Data())
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, b.Publish(NewEvent("step", "tester", 1)))
		require.NoError(t, b.Publish(NewEvent("other", "tester", 2)))
		require.Equal(t, []any{1}, got)
	})

	t.Run("Handler errors are joined", func(t *testing.T) {
		b := New()
		first, second := errors.New("first"), errors.New("second")
		_, _ = b.Subscribe("x", func(Event) error { return first })
		_, _ = b.Subscribe("x", func(Event) error { return second })
		_, _ = b.Subscribe("x", func(Event) error { return nil })

		err := b.Publish(NewEvent("x", "src", nil))
		require.ErrorIs(t, err, first)
		require.ErrorIs(t, err, second)
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		b := New()
		calls := 0
		sub, err := b.Subscribe("x", func(Event) error { calls++; return nil })
		require.NoError(t, err)
		require.Equal(t, 1, b.Subscribers("x"))
		require.True(t, sub.IsActive())

		require.NoError(t, b.Unsubscribe(sub))
		require.NoError(t, sub.Cancel())
		require.NoError(t, b.Unsubscribe(nil))
		require.False(t, sub.IsActive())
		require.Equal(t, 0, b.Subscribers("x"))

		require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
		require.Equal(t, 0, calls)
	})

	t.Run("Nil handler", func(t *testing.T) {
		_, err := New().Subscribe("x", nil)
		require.ErrorIs(t, err, ErrNilHandler)
	})

	t.Run("Concurrent publish and cancel", func(t *testing.T) {
		b := New()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			sub, err := b.Subscribe("x", func(Event) error { return nil })
			require.NoError(t, err)
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = b.Publish(NewEvent("x", "src", nil))
			}()
			go func() {
				defer wg.Done()
				_ = sub.Cancel()
			}()
		}
		wg.Wait()
		require.Equal(t, 0, b.Subscribers("x"))
	})
}
