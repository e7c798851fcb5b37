package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/bt/internal/core/events/bus"
	"github.com/zeusync/bt/internal/core/observability/log"
)

// Event types published by a Manager. Both carry a StepEvent.
const (
	EventStep          = "agent.step"
	EventStatusChanged = "agent.status_changed"
)

// StepEvent is the payload of step events.
type StepEvent struct {
	Agent  *Agent
	Result Result
	Err    error
}

// Manager steps many agents. Different agents run concurrently; each agent
// still sees one caller at a time.
type Manager struct {
	mu     sync.RWMutex
	agents map[string]*Agent
	events bus.EventBus
	limit  int
	logger log.Log
}

// NewManager creates a manager running at most limit agent steps at once;
// limit < 1 means no limit. Step events go to events, or to a private bus
// when events is nil.
func NewManager(logger log.Log, events bus.EventBus, limit int) *Manager {
	if logger == nil {
		logger = log.NewNop()
	}
	if events == nil {
		events = bus.New()
	}
	return &Manager{agents: make(map[string]*Agent), events: events, limit: limit, logger: logger}
}

// Events is the bus step events are published on.
func (m *Manager) Events() bus.EventBus { return m.events }

func (m *Manager) Add(a *Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.agents[a.ID()]; exists {
		return fmt.Errorf("agent %s already registered", a.ID())
	}
	m.agents[a.ID()] = a
	m.logger.Debug("agent added", log.String("agent_id", a.ID()), log.String("agent", a.Name()))
	return nil
}

func (m *Manager) Get(id string) (*Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	return a, ok
}

func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[id]; !ok {
		return false
	}
	delete(m.agents, id)
	return true
}

// Agents returns the registered agents ordered by ID.
func (m *Manager) Agents() []*Agent {
	m.mu.RLock()
	out := make([]*Agent, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, a)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// StepAll steps every agent once and returns the first error encountered.
// One failing agent does not stop the others.
func (m *Manager) StepAll(ctx context.Context) error {
	agents := m.Agents()

	var g errgroup.Group
	if m.limit > 0 {
		g.SetLimit(m.limit)
	}
	for _, a := range agents {
		g.Go(func() error {
			res, err := a.Step(ctx)
			m.publish(a, res, err)
			if err != nil {
				m.logger.Error("agent step failed", log.String("agent_id", a.ID()), log.Error(err))
				return fmt.Errorf("agent %s: %w", a.ID(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Run calls StepAll every interval until ctx is done. Step errors are logged
// and do not stop the loop.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = m.StepAll(ctx)
		}
	}
}

func (m *Manager) publish(a *Agent, res Result, err error) {
	ev := StepEvent{Agent: a, Result: res, Err: err}
	if perr := m.events.Publish(bus.NewEvent(EventStep, a.ID(), ev)); perr != nil {
		m.logger.Warn("step subscriber failed", log.String("agent_id", a.ID()), log.Error(perr))
	}
	if err != nil || res.Status == res.Previous {
		return
	}
	if perr := m.events.Publish(bus.NewEvent(EventStatusChanged, a.ID(), ev)); perr != nil {
		m.logger.Warn("status subscriber failed", log.String("agent_id", a.ID()), log.Error(perr))
	}
}
