// Package agent drives behavior trees on behalf of simulated agents: one
// blackboard, a set of sensors and one tree per agent, updated once per step.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/bt/internal/core/blackboard"
	"github.com/zeusync/bt/internal/core/bt"
	"github.com/zeusync/bt/internal/core/bt/snapshot"
	"github.com/zeusync/bt/internal/core/observability/log"
)

// Result is the outcome of one agent step. Previous is the tree status
// before the step.
type Result struct {
	Step     uint64
	Status   bt.Status
	Previous bt.Status
	Origin   bt.Node
}

// Agent owns a tree and serialises every call into it.
type Agent struct {
	mu      sync.Mutex
	id      string
	name    string
	tree    *bt.Tree
	bb      *blackboard.Blackboard
	sensors []Sensor
	history *History
	logger  log.Log
	step    uint64
	last    bt.Status
}

type Option func(*Agent)

func WithID(id string) Option { return func(a *Agent) { a.id = id } }

func WithBlackboard(bb *blackboard.Blackboard) Option { return func(a *Agent) { a.bb = bb } }

func WithSensors(sensors ...Sensor) Option {
	return func(a *Agent) { a.sensors = append(a.sensors, sensors...) }
}

func WithLogger(l log.Log) Option { return func(a *Agent) { a.logger = l } }

// WithHistory sets how many decisions are retained.
func WithHistory(size int) Option { return func(a *Agent) { a.history = NewHistory(size) } }

// New creates an agent around tree. Missing components get defaults: a random
// ID, an empty blackboard, a 128-entry history and a no-op logger.
func New(name string, tree *bt.Tree, opts ...Option) *Agent {
	a := &Agent{name: name, tree: tree}
	for _, opt := range opts {
		opt(a)
	}
	if a.id == "" {
		a.id = uuid.NewString()
	}
	if a.bb == nil {
		a.bb = blackboard.New()
	}
	if a.history == nil {
		a.history = NewHistory(128)
	}
	if a.logger == nil {
		a.logger = log.NewNop()
	}
	a.logger = a.logger.With(log.String("agent_id", a.id), log.String("agent", a.name))
	return a
}

func (a *Agent) ID() string                         { return a.id }
func (a *Agent) Name() string                       { return a.name }
func (a *Agent) Blackboard() *blackboard.Blackboard { return a.bb }
func (a *Agent) History() *History                  { return a.history }

// Step refreshes sensors and updates the tree once. A sensor error skips the
// tree update for this step.
func (a *Agent) Step(ctx context.Context) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{Step: a.step, Status: bt.StatusNone, Previous: a.last}, err
	}
	for _, s := range a.sensors {
		if err := s.Update(ctx, a.bb); err != nil {
			return Result{Step: a.step, Status: bt.StatusNone, Previous: a.last}, fmt.Errorf("sensor %s: %w", s.Name(), err)
		}
	}

	a.step++
	start := time.Now()
	st, origin := a.tree.Update(a.bb)
	took := time.Since(start)

	originName := ""
	if origin != nil {
		originName = origin.Name()
	}
	a.history.Append(Decision{
		Step:      a.step,
		Status:    st,
		State:     st.String(),
		Origin:    originName,
		RunLength: a.tree.RunLength(),
		Duration:  took,
		At:        start,
	})
	prev := a.last
	if st != prev {
		a.logger.Debug("tree status changed",
			log.Uint64("step", a.step),
			log.String("from", a.last.String()),
			log.String("to", st.String()),
			log.String("origin", originName),
		)
		a.last = st
	}
	return Result{Step: a.step, Status: st, Previous: prev, Origin: origin}, nil
}

// Abort resets the tree, dropping whatever was running.
func (a *Agent) Abort() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tree.Reset()
	a.last = bt.StatusNone
	a.logger.Info("tree aborted", log.Uint64("step", a.step))
}

// Snapshot captures the tree state between steps.
func (a *Agent) Snapshot() snapshot.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return snapshot.Take(a.tree)
}
