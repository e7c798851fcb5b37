package bt

// Tree is the root wrapper driven by the host once per step. When a step
// settles without anything left Running the whole subtree is reset so the
// next step starts from the top.
type Tree struct {
	State
	root Node
}

func NewTree(name string, root Node) *Tree {
	return &Tree{State: newState("Tree", name), root: root}
}

func (t *Tree) Root() Node { return t.root }

// Update delegates to the root. The reset on a settled result prepares the
// next call and does not change what this call returns.
func (t *Tree) Update(bb any) (Status, Node) {
	if t.root == nil {
		panic(violation(ErrNilChild, t, "update called without a root"))
	}
	st, origin := t.root.Update(bb)
	checkStatus(t, t.root, st)
	if st != StatusRunning {
		t.root.Reset()
	}
	return t.Record(st, origin)
}

func (t *Tree) Reset() {
	t.ResetState()
	if t.root != nil {
		t.root.Reset()
	}
}

// Visit walks the root starting again at depth 0; the depth argument is ignored.
func (t *Tree) Visit(v Visitor, _ int) bool {
	if t.root == nil {
		return true
	}
	return t.root.Visit(v, 0)
}
