package loader

import (
	"errors"
	"fmt"

	"github.com/zeusync/bt/internal/core/bt"
)

// Reader and Writer are the blackboard capabilities the built-in leaves use.
type Reader interface {
	Get(key string) (any, bool)
}

type Writer interface {
	Set(key string, value any)
}

// constant always returns the same status.
type constant bt.Status

func (c constant) Tick(any) bt.Status { return bt.Status(c) }

func (c constant) Kind() string {
	if bt.Status(c) == bt.StatusSuccess {
		return "Succeed"
	}
	return "Fail"
}

// wait reports Running for steps updates and then Success.
type wait struct {
	steps int
	left  int
}

func (w *wait) Tick(any) bt.Status {
	if w.left == 0 {
		w.left = w.steps
		return bt.StatusSuccess
	}
	w.left--
	return bt.StatusRunning
}

func (w *wait) Reset() { w.left = w.steps }

func (w *wait) Kind() string { return "Running" }

// isTrue succeeds when the blackboard holds true under key.
type isTrue struct{ key string }

func (isTrue) Kind() string { return "IsTrue" }

func (c isTrue) Tick(bb any) bt.Status {
	r, ok := bb.(Reader)
	if !ok {
		return bt.StatusFailure
	}
	v, _ := r.Get(c.key)
	if b, ok := v.(bool); ok && b {
		return bt.StatusSuccess
	}
	return bt.StatusFailure
}

// setValue writes value under key and succeeds.
type setValue struct {
	key   string
	value any
}

func (setValue) Kind() string { return "SetValue" }

func (a setValue) Tick(bb any) bt.Status {
	w, ok := bb.(Writer)
	if !ok {
		return bt.StatusFailure
	}
	w.Set(a.key, a.value)
	return bt.StatusSuccess
}

func registerBuiltins(r *Registry) {
	r.Register("Succeed", func(map[string]any) (bt.Behavior, error) {
		return constant(bt.StatusSuccess), nil
	})
	r.Register("Fail", func(map[string]any) (bt.Behavior, error) {
		return constant(bt.StatusFailure), nil
	})
	r.Register("Running", func(params map[string]any) (bt.Behavior, error) {
		steps, err := intParam(params, "steps", 1)
		if err != nil {
			return nil, err
		}
		if steps < 0 {
			return nil, fmt.Errorf("steps must not be negative, got %d", steps)
		}
		return &wait{steps: steps, left: steps}, nil
	})
	r.Register("IsTrue", func(params map[string]any) (bt.Behavior, error) {
		key, _ := params["key"].(string)
		if key == "" {
			return nil, errors.New("requires 'key'")
		}
		return isTrue{key: key}, nil
	})
	r.Register("SetValue", func(params map[string]any) (bt.Behavior, error) {
		key, _ := params["key"].(string)
		if key == "" {
			return nil, errors.New("requires 'key'")
		}
		return setValue{key: key, value: params["value"]}, nil
	})
}
