package bt

// ControlFlow is the shared part of composites: an ordered list of owned
// children. Order is evaluation order.
type ControlFlow struct {
	State
	children []Node
}

// Children returns a copy of the child list.
func (c *ControlFlow) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

func (c *ControlFlow) Len() int { return len(c.children) }

func (c *ControlFlow) Child(i int) Node { return c.children[i] }

func (c *ControlFlow) add(child Node) {
	if child == nil {
		panic(violation(ErrNilChild, &c.State, "add called with nil"))
	}
	c.children = append(c.children, child)
}

// Reset resets the composite and then every child in order.
func (c *ControlFlow) Reset() {
	c.ResetState()
	for _, ch := range c.children {
		ch.Reset()
	}
}

func (c *ControlFlow) visit(self Node, v Visitor, depth int) bool {
	if !v(self, depth) {
		return false
	}
	for _, ch := range c.children {
		if !ch.Visit(v, depth+1) {
			return false
		}
	}
	return true
}

// Selector tries children in order and settles on the first one that does
// not fail. It always starts again from the first child so that higher
// priority branches get re-checked every step.
type Selector struct {
	ControlFlow
}

func NewSelector(name string, children ...Node) *Selector {
	s := &Selector{ControlFlow: ControlFlow{State: newState("Selector", name)}}
	for _, ch := range children {
		s.Add(ch)
	}
	return s
}

// Add appends a child and returns the selector for chaining.
func (s *Selector) Add(child Node) *Selector {
	s.add(child)
	return s
}

func (s *Selector) Update(bb any) (Status, Node) {
	for _, ch := range s.children {
		st, origin := ch.Update(bb)
		checkStatus(s, ch, st)
		if st == StatusFailure {
			continue
		}
		return s.Record(st, origin)
	}
	return s.Record(StatusFailure, s)
}

func (s *Selector) Visit(v Visitor, depth int) bool { return s.visit(s, v, depth) }

// Sequence runs children in order and stops on the first one that does not
// succeed. A child left Running is where the next update resumes, so
// children that already succeeded are not run again while it is pending.
type Sequence struct {
	ControlFlow
	resume int
}

func NewSequence(name string, children ...Node) *Sequence {
	s := &Sequence{ControlFlow: ControlFlow{State: newState("Sequence", name)}}
	for _, ch := range children {
		s.Add(ch)
	}
	return s
}

// Add appends a child and returns the sequence for chaining.
func (s *Sequence) Add(child Node) *Sequence {
	s.add(child)
	return s
}

// ResumeIndex is the child the next update starts from.
func (s *Sequence) ResumeIndex() int { return s.resume }

func (s *Sequence) Update(bb any) (Status, Node) {
	if s.resume < 0 || (s.resume > 0 && s.resume >= len(s.children)) {
		panic(violation(ErrResumeIndex, s, "index %d with %d children", s.resume, len(s.children)))
	}
	for i := s.resume; i < len(s.children); i++ {
		ch := s.children[i]
		st, origin := ch.Update(bb)
		checkStatus(s, ch, st)
		if st == StatusSuccess {
			continue
		}
		s.resume = i
		return s.Record(st, origin)
	}
	s.resume = 0
	return s.Record(StatusSuccess, s)
}

func (s *Sequence) Reset() {
	s.ControlFlow.Reset()
	s.resume = 0
}

func (s *Sequence) Visit(v Visitor, depth int) bool { return s.visit(s, v, depth) }
