package bt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func statuses(n Node) []Status {
	var out []Status
	Walk(n, func(cur Node, _ int) bool {
		out = append(out, cur.LastStatus())
		return true
	})
	return out
}

func TestTree(t *testing.T) {
	t.Run("Resets after a settled step", func(t *testing.T) {
		a, _ := always("a", StatusSuccess)
		b, _ := always("b", StatusFailure)
		root := NewSequence("root", a, b)
		tree := NewTree("guard", root)

		st, origin := tree.Update(nil)
		require.Equal(t, StatusFailure, st)
		require.Same(t, b, origin)
		require.Equal(t, StatusFailure, tree.LastStatus())
		require.Same(t, b, tree.LastActive())

		require.Equal(t, []Status{StatusNone, StatusNone, StatusNone}, statuses(tree))
		require.Equal(t, 0, root.ResumeIndex())
	})

	t.Run("Keeps state while running", func(t *testing.T) {
		a, aCalls := always("a", StatusSuccess)
		b, _ := script("b", StatusRunning, StatusRunning, StatusSuccess)
		root := NewSequence("root", a, b)
		tree := NewTree("patrol", root)

		st, origin := tree.Update(nil)
		require.Equal(t, StatusRunning, st)
		require.Same(t, b, origin)
		require.Equal(t, []Status{StatusRunning, StatusSuccess, StatusRunning}, statuses(tree))
		require.Equal(t, 1, root.ResumeIndex())

		st, _ = tree.Update(nil)
		require.Equal(t, StatusRunning, st)
		require.Equal(t, 2, tree.RunLength())
		require.Equal(t, 2, b.RunLength())

		st, origin = tree.Update(nil)
		require.Equal(t, StatusSuccess, st)
		require.Same(t, root, origin)
		require.Equal(t, 0, tree.RunLength())
		require.Equal(t, 1, aCalls.calls)
		require.Equal(t, []Status{StatusNone, StatusNone, StatusNone}, statuses(tree))
	})

	t.Run("Next step starts from the top", func(t *testing.T) {
		a, aCalls := always("a", StatusSuccess)
		b, _ := always("b", StatusSuccess)
		tree := NewTree("", NewSequence("root", a, b))

		tree.Update(nil)
		tree.Update(nil)
		require.Equal(t, 2, aCalls.calls)
		require.Equal(t, "Tree", tree.Name())
	})

	t.Run("Reset", func(t *testing.T) {
		leaf, _ := always("leaf", StatusRunning)
		tree := NewTree("t", leaf)
		tree.Update(nil)
		tree.Reset()
		require.Equal(t, StatusNone, tree.LastStatus())
		require.Equal(t, 0, tree.RunLength())
		require.Equal(t, StatusNone, leaf.LastStatus())
	})

	t.Run("Nested subtree", func(t *testing.T) {
		leaf, _ := always("inner", StatusSuccess)
		sub := NewTree("sub", NewSequence("subroot", leaf))
		other, _ := always("other", StatusRunning)
		tree := NewTree("outer", NewSequence("root", sub, other))

		st, origin := tree.Update(nil)
		require.Equal(t, StatusRunning, st)
		require.Same(t, other, origin)
		require.Equal(t, StatusSuccess, sub.LastStatus())
	})

	t.Run("Missing root", func(t *testing.T) {
		require.Panics(t, func() { NewTree("empty", nil).Update(nil) })
		require.True(t, NewTree("empty", nil).Visit(func(Node, int) bool { return false }, 0))
	})
}
