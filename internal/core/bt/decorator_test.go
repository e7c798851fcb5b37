package bt

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func panicErr(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		var ok bool
		err, ok = r.(error)
		require.True(t, ok)
	}()
	fn()
	return nil
}

func TestDecorator(t *testing.T) {
	t.Run("Abstract", func(t *testing.T) {
		leaf, _ := always("leaf", StatusSuccess)
		d := NewDecorator("plain", nil, leaf)
		err := panicErr(t, func() { d.Update(nil) })
		require.True(t, errors.Is(err, ErrAbstractDecorator))
	})

	t.Run("Missing child", func(t *testing.T) {
		d := NewInverter(nil)
		err := panicErr(t, func() { d.Update(nil) })
		require.True(t, errors.Is(err, ErrNilChild))
		require.True(t, d.Visit(func(Node, int) bool { return true }, 0))
	})

	t.Run("Custom modifier", func(t *testing.T) {
		leaf, _ := always("leaf", StatusFailure)
		d := NewDecorator("retry-once", ModifierFunc(func(child Node, bb any) (Status, Node) {
			st, origin := child.Update(bb)
			if st == StatusFailure {
				return StatusRunning, nil
			}
			return st, origin
		}), nil).SetChild(leaf)

		st, origin := d.Update(nil)
		require.Equal(t, StatusRunning, st)
		require.Same(t, d, origin)
		require.Equal(t, 1, d.RunLength())
		require.Same(t, leaf, d.Child())
	})

	t.Run("Inverter", func(t *testing.T) {
		leaf, _ := script("leaf", StatusSuccess, StatusFailure, StatusRunning)
		d := NewInverter(leaf)

		st, origin := d.Update(nil)
		require.Equal(t, StatusFailure, st)
		require.Same(t, d, origin)
		st, _ = d.Update(nil)
		require.Equal(t, StatusSuccess, st)
		st, origin = d.Update(nil)
		require.Equal(t, StatusRunning, st)
		require.Same(t, leaf, origin)
	})

	t.Run("Succeeder", func(t *testing.T) {
		leaf, _ := script("leaf", StatusFailure, StatusRunning)
		d := NewSucceeder(leaf)
		st, _ := d.Update(nil)
		require.Equal(t, StatusSuccess, st)
		st, _ = d.Update(nil)
		require.Equal(t, StatusRunning, st)
	})

	t.Run("Repeat", func(t *testing.T) {
		leaf, calls := script("leaf", StatusRunning, StatusSuccess, StatusSuccess, StatusSuccess)
		d := NewRepeat(leaf, 3)

		want := []Status{StatusRunning, StatusRunning, StatusRunning, StatusSuccess}
		for i, w := range want {
			st, _ := d.Update(nil)
			require.Equal(t, w, st, "update %d", i)
		}
		require.Equal(t, 4, calls.calls)

		failing, _ := always("fail", StatusFailure)
		st, origin := NewRepeat(failing, 0).Update(nil)
		require.Equal(t, StatusFailure, st)
		require.Same(t, failing, origin)
	})

	t.Run("Cooldown", func(t *testing.T) {
		clock := newFakeClock()
		leaf, calls := always("attack", StatusSuccess)
		d := NewCooldown(leaf, time.Second, clock.Now)

		st, _ := d.Update(nil)
		require.Equal(t, StatusSuccess, st)

		clock.Advance(500 * time.Millisecond)
		st, origin := d.Update(nil)
		require.Equal(t, StatusFailure, st)
		require.Same(t, d, origin)
		require.Equal(t, 1, calls.calls)

		d.Reset()
		st, _ = d.Update(nil)
		require.Equal(t, StatusFailure, st)

		clock.Advance(time.Second)
		st, _ = d.Update(nil)
		require.Equal(t, StatusSuccess, st)
		require.Equal(t, 2, calls.calls)
	})

	t.Run("Timer", func(t *testing.T) {
		clock := newFakeClock()
		leaf, calls := always("fire", StatusSuccess)
		d := NewTimer(leaf, 2*time.Second, clock.Now)

		st, _ := d.Update(nil)
		require.Equal(t, StatusRunning, st)
		clock.Advance(time.Second)
		st, _ = d.Update(nil)
		require.Equal(t, StatusRunning, st)
		require.Equal(t, 2, d.RunLength())
		require.Equal(t, 0, calls.calls)

		clock.Advance(time.Second)
		st, _ = d.Update(nil)
		require.Equal(t, StatusSuccess, st)
		require.Equal(t, 1, calls.calls)

		st, _ = d.Update(nil)
		require.Equal(t, StatusRunning, st)
		d.Reset()
		clock.Advance(5 * time.Second)
		st, _ = d.Update(nil)
		require.Equal(t, StatusRunning, st)
	})

	t.Run("Probability", func(t *testing.T) {
		leaf, calls := always("maybe", StatusSuccess)
		never := NewProbability(leaf, 0, rand.New(rand.NewSource(1)))
		st, _ := never.Update(nil)
		require.Equal(t, StatusFailure, st)
		require.Equal(t, 0, calls.calls)

		sure := NewProbability(leaf, 1, nil)
		st, _ = sure.Update(nil)
		require.Equal(t, StatusSuccess, st)
		require.Equal(t, 1, calls.calls)

		running, runCalls := script("long", StatusRunning, StatusRunning, StatusSuccess)
		gate := NewProbability(running, 0.5, rand.New(rand.NewSource(3)))
		for gate.LastStatus() != StatusRunning {
			gate.Update(nil)
		}
		st, _ = gate.Update(nil)
		require.Equal(t, StatusRunning, st)
		st, _ = gate.Update(nil)
		require.Equal(t, StatusSuccess, st)
		require.Equal(t, 3, runCalls.calls)
	})

	t.Run("Probability rolls again after reset", func(t *testing.T) {
		leaf, calls := always("busy", StatusRunning)
		gate := NewProbability(leaf, 0.5, rand.New(rand.NewSource(7)))
		for calls.calls == 0 {
			gate.Update(nil)
		}
		gate.Reset()

		failures := 0
		for i := 0; i < 50; i++ {
			if st, _ := gate.Update(nil); st == StatusFailure {
				failures++
			}
			gate.Reset()
		}
		require.Positive(t, failures)
		require.Equal(t, 51-failures, calls.calls)
	})

	t.Run("Probability ignores child bookkeeping", func(t *testing.T) {
		child := &staleRunning{Leaf: NewAction("stale", func(any) Status { return StatusSuccess })}
		gate := NewProbability(child, 0.5, rand.New(rand.NewSource(11)))

		failures := 0
		for i := 0; i < 50; i++ {
			if st, _ := gate.Update(nil); st == StatusFailure {
				failures++
			}
		}
		require.Positive(t, failures)
	})
}

// staleRunning reports Running as its last status whatever it returned.
type staleRunning struct {
	*Leaf
}

func (s *staleRunning) LastStatus() Status { return StatusRunning }
