package bt

import (
	"fmt"
	"reflect"
)

// Behavior is the host-supplied logic of a leaf. Tick must return Success,
// Failure or Running and must not touch other nodes.
type Behavior interface {
	Tick(bb any) Status
}

// Resetter is implemented by behaviors and modifiers that keep run state.
type Resetter interface {
	Reset()
}

// ActionFunc wraps a function as a leaf behavior.
type ActionFunc func(bb any) Status

func (f ActionFunc) Tick(bb any) Status { return f(bb) }

// ConditionFunc wraps a predicate; true maps to Success and false to Failure.
type ConditionFunc func(bb any) bool

func (f ConditionFunc) Tick(bb any) Status {
	if f(bb) {
		return StatusSuccess
	}
	return StatusFailure
}

// Kinder lets a behavior pick its leaf kind instead of its type name.
type Kinder interface {
	Kind() string
}

// Leaf adapts a Behavior to the Node contract.
type Leaf struct {
	State
	behavior Behavior
}

// NewLeaf wraps b. The kind is the behavior's Kind when it implements Kinder
// and its type name otherwise; it doubles as the default name.
func NewLeaf(name string, b Behavior) *Leaf {
	if b == nil {
		panic(fmt.Errorf("%w: leaf %q has no behavior", ErrNilChild, name))
	}
	return &Leaf{State: newState(typeName(b), name), behavior: b}
}

func NewAction(name string, fn func(bb any) Status) *Leaf {
	return NewLeaf(name, ActionFunc(fn))
}

func NewCondition(name string, fn func(bb any) bool) *Leaf {
	return NewLeaf(name, ConditionFunc(fn))
}

func (l *Leaf) Behavior() Behavior { return l.behavior }

func (l *Leaf) Update(bb any) (Status, Node) {
	st := l.behavior.Tick(bb)
	if !st.valid() {
		panic(violation(ErrInvalidStatus, l, "behavior returned %v", st))
	}
	return l.Record(st, l)
}

func (l *Leaf) Reset() {
	l.ResetState()
	if r, ok := l.behavior.(Resetter); ok {
		r.Reset()
	}
}

func (l *Leaf) Visit(v Visitor, depth int) bool { return v(l, depth) }

func typeName(v any) string {
	if k, ok := v.(Kinder); ok && k.Kind() != "" {
		return k.Kind()
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "Leaf"
	}
	return t.Name()
}
