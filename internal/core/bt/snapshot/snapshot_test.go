package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/bt/internal/core/bt"
)

func TestSnapshot(t *testing.T) {
	calls := 0
	walk := bt.NewAction("walk", func(any) bt.Status {
		calls++
		if calls < 3 {
			return bt.StatusRunning
		}
		return bt.StatusSuccess
	})
	look := bt.NewCondition("look", func(any) bool { return true })
	tree := bt.NewTree("patrol", bt.NewSequence("root", look, walk))

	before := Take(tree)
	require.Len(t, before.Entries, 3)
	require.Equal(t, "None", before.Status)

	tree.Update(nil)
	first := Take(tree)
	require.Equal(t, "Running", first.Status)
	require.Equal(t, []string{"root", "walk"}, first.Running())
	require.True(t, first.Entries[2].Active)
	require.False(t, first.Entries[0].Active)
	require.Equal(t, 1, first.Entries[2].RunLength)
	require.NotEqual(t, before.Fingerprint(), first.Fingerprint())

	require.Equal(t, "patrol [Running]\n"+
		"  root (Sequence) Running x1\n"+
		"    look (ConditionFunc) Success\n"+
		"    walk (ActionFunc) Running x1 *\n", first.String())

	tree.Update(nil)
	second := Take(tree)
	require.Equal(t, 2, second.Entries[2].RunLength)
	require.NotEqual(t, first.Fingerprint(), second.Fingerprint())
	require.Equal(t, second.Fingerprint(), Take(tree).Fingerprint())

	tree.Update(nil)
	done := Take(tree)
	require.Equal(t, "Success", done.Status)
	require.Empty(t, done.Running())
	for _, e := range done.Entries {
		require.Equal(t, bt.StatusNone, e.Status)
	}
}
