// Package gobt bridges trees built with github.com/joeycumines/go-behaviortree
// and trees built with this module, in both directions.
package gobt

import (
	"errors"
	"fmt"
	"sync"

	behaviortree "github.com/joeycumines/go-behaviortree"

	"github.com/zeusync/bt/internal/core/bt"
)

var ErrNilNode = errors.New("nil go-behaviortree node")

// Foreign is a leaf behavior that ticks a go-behaviortree node. A tick error
// is reported as Failure and kept until the next tick or reset.
type Foreign struct {
	node behaviortree.Node

	mu  sync.Mutex
	err error
}

func NewForeign(node behaviortree.Node) *Foreign {
	return &Foreign{node: node}
}

// FromBT wraps node as a named leaf.
func FromBT(name string, node behaviortree.Node) *bt.Leaf {
	return bt.NewLeaf(name, NewForeign(node))
}

func (f *Foreign) Tick(any) bt.Status {
	var (
		st  behaviortree.Status
		err error
	)
	if f.node == nil {
		err = ErrNilNode
	} else {
		st, err = f.node.Tick()
	}

	out := bt.StatusFailure
	if err == nil {
		out, err = FromStatus(st)
		if err != nil {
			out = bt.StatusFailure
		}
	}

	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	return out
}

// Err returns the error of the last tick, if any.
func (f *Foreign) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Foreign) Reset() {
	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()
}

// ToBT exposes n as a go-behaviortree node. Each tick performs one Update of
// n against bb. The returned node has no go-behaviortree children; n keeps
// driving its own subtree.
func ToBT(n bt.Node, bb any) behaviortree.Node {
	return behaviortree.New(func([]behaviortree.Node) (behaviortree.Status, error) {
		if n == nil {
			return behaviortree.Failure, bt.ErrNilChild
		}
		st, _ := n.Update(bb)
		return ToStatus(st)
	})
}

func FromStatus(st behaviortree.Status) (bt.Status, error) {
	switch st {
	case behaviortree.Running:
		return bt.StatusRunning, nil
	case behaviortree.Success:
		return bt.StatusSuccess, nil
	case behaviortree.Failure:
		return bt.StatusFailure, nil
	default:
		return bt.StatusNone, fmt.Errorf("unknown go-behaviortree status %d", st)
	}
}

func ToStatus(st bt.Status) (behaviortree.Status, error) {
	switch st {
	case bt.StatusRunning:
		return behaviortree.Running, nil
	case bt.StatusSuccess:
		return behaviortree.Success, nil
	case bt.StatusFailure:
		return behaviortree.Failure, nil
	default:
		return behaviortree.Failure, fmt.Errorf("%w: %s", bt.ErrInvalidStatus, st)
	}
}
