package bt

import (
	"errors"
	"fmt"
)

// Structural contract violations. The engine panics with these (wrapped)
// because they come from a tree that was assembled wrong, not from a step.
var (
	ErrNilChild          = errors.New("bt: missing child")
	ErrAbstractDecorator = errors.New("bt: decorator has no modifier")
	ErrResumeIndex       = errors.New("bt: resume index out of range")
	ErrInvalidStatus     = errors.New("bt: invalid status")
)

type named interface {
	Kind() string
	Name() string
}

func violation(err error, n named, format string, args ...any) error {
	return fmt.Errorf("%w: %s %q: %s", err, n.Kind(), n.Name(), fmt.Sprintf(format, args...))
}

// checkStatus panics unless st is one a node may legally return from Update.
func checkStatus(parent named, child Node, st Status) {
	if !st.valid() {
		panic(violation(ErrInvalidStatus, parent, "child %q returned %v", child.Name(), st))
	}
}
