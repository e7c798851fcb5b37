package bt

// Modifier supplies the update logic of a Decorator. It receives the child
// and decides whether and how to update it. Returning a nil origin makes the
// decorator the origin.
type Modifier interface {
	Modify(child Node, bb any) (Status, Node)
}

// ModifierFunc adapts a function to Modifier.
type ModifierFunc func(child Node, bb any) (Status, Node)

func (f ModifierFunc) Modify(child Node, bb any) (Status, Node) { return f(child, bb) }

// Decorator wraps exactly one child. Without a Modifier it is abstract and
// panics on Update.
type Decorator struct {
	State
	child    Node
	modifier Modifier
}

// NewDecorator builds a decorator of kind "Decorator".
func NewDecorator(name string, m Modifier, child Node) *Decorator {
	return newDecorator("Decorator", name, m, child)
}

func newDecorator(kind, name string, m Modifier, child Node) *Decorator {
	return &Decorator{State: newState(kind, name), child: child, modifier: m}
}

// Named overrides the display name.
func (d *Decorator) Named(name string) *Decorator {
	d.SetName(name)
	return d
}

func (d *Decorator) Child() Node { return d.child }

func (d *Decorator) SetChild(child Node) *Decorator {
	d.child = child
	return d
}

func (d *Decorator) Update(bb any) (Status, Node) {
	if d.modifier == nil {
		panic(violation(ErrAbstractDecorator, d, "update called"))
	}
	if d.child == nil {
		panic(violation(ErrNilChild, d, "update called without a child"))
	}
	st, origin := d.modifier.Modify(d.child, bb)
	if !st.valid() {
		panic(violation(ErrInvalidStatus, d, "modifier returned %v", st))
	}
	if origin == nil {
		origin = d
	}
	return d.Record(st, origin)
}

func (d *Decorator) Reset() {
	d.ResetState()
	if r, ok := d.modifier.(Resetter); ok {
		r.Reset()
	}
	if d.child != nil {
		d.child.Reset()
	}
}

func (d *Decorator) Visit(v Visitor, depth int) bool {
	if !v(d, depth) {
		return false
	}
	if d.child == nil {
		return true
	}
	return d.child.Visit(v, depth+1)
}
