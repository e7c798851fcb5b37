package bt

// Visitor is called for every node reached by Visit together with its depth.
// Returning false stops the traversal.
type Visitor func(n Node, depth int) bool

// Node is the unit of a behavior tree.
//
// Update evaluates the node for one step and returns its status together with
// the node that effectively produced it: the leaf itself, the child whose
// result a composite forwards, or the composite when it synthesises the
// result. The returned node is diagnostic only.
//
// Reset returns the node and everything it owns to the never-run state.
// Visit walks the subtree depth-first in pre-order.
type Node interface {
	Update(bb any) (Status, Node)
	Reset()
	Visit(v Visitor, depth int) bool

	Name() string
	Kind() string
	LastStatus() Status
	RunLength() int
	LastActive() Node
}

// State is the bookkeeping every node carries. Embed it and call Record from
// Update and ResetState from Reset to satisfy the Node contract.
type State struct {
	name       string
	kind       string
	lastStatus Status
	runLength  int
	lastActive Node
}

func newState(kind, name string) State {
	if name == "" {
		name = kind
	}
	return State{name: name, kind: kind}
}

// NewState returns bookkeeping for a host-defined node kind.
func NewState(kind, name string) State { return newState(kind, name) }

func (s *State) Name() string { return s.name }

// SetName overrides the display name; an empty name restores the kind name.
func (s *State) SetName(name string) {
	if name == "" {
		name = s.kind
	}
	s.name = name
}

func (s *State) Kind() string       { return s.kind }
func (s *State) LastStatus() Status { return s.lastStatus }
func (s *State) RunLength() int     { return s.runLength }
func (s *State) LastActive() Node   { return s.lastActive }

// Record stores the outcome of an update and passes it through.
func (s *State) Record(st Status, origin Node) (Status, Node) {
	s.lastStatus = st
	s.lastActive = origin
	if st == StatusRunning {
		s.runLength++
	} else {
		s.runLength = 0
	}
	return st, origin
}

// ResetState clears the bookkeeping.
func (s *State) ResetState() {
	s.lastStatus = StatusNone
	s.runLength = 0
	s.lastActive = nil
}
