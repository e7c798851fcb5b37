package bt

import (
	"math/rand"
	"time"
)

// Clock returns the current time. Nil clocks fall back to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// NewInverter flips Success and Failure. Running passes through.
func NewInverter(child Node) *Decorator {
	return newDecorator("Inverter", "", ModifierFunc(invert), child)
}

func invert(child Node, bb any) (Status, Node) {
	st, origin := child.Update(bb)
	switch st {
	case StatusSuccess:
		return StatusFailure, nil
	case StatusFailure:
		return StatusSuccess, nil
	default:
		return st, origin
	}
}

// NewSucceeder reports Success for any settled child result.
func NewSucceeder(child Node) *Decorator {
	return newDecorator("Succeeder", "", ModifierFunc(succeed), child)
}

func succeed(child Node, bb any) (Status, Node) {
	st, origin := child.Update(bb)
	if st == StatusRunning {
		return st, origin
	}
	return StatusSuccess, nil
}

type repeat struct {
	times int
	done  int
}

// NewRepeat runs the child to Success times times, one update per step. The
// child is reset between runs and a child Failure ends the loop with Failure.
func NewRepeat(child Node, times int) *Decorator {
	if times < 1 {
		times = 1
	}
	return newDecorator("Repeat", "", &repeat{times: times}, child)
}

func (r *repeat) Modify(child Node, bb any) (Status, Node) {
	st, origin := child.Update(bb)
	switch st {
	case StatusRunning:
		return st, origin
	case StatusFailure:
		r.done = 0
		return st, origin
	}
	r.done++
	if r.done >= r.times {
		r.done = 0
		return StatusSuccess, nil
	}
	child.Reset()
	return StatusRunning, nil
}

func (r *repeat) Reset() { r.done = 0 }

type cooldown struct {
	period time.Duration
	clock  Clock
	last   time.Time
	armed  bool
}

// NewCooldown fails fast for period after the child settles so a selector can
// fall through to alternatives. The cooldown survives Reset: it tracks wall
// time, not run state.
func NewCooldown(child Node, period time.Duration, clock Clock) *Decorator {
	return newDecorator("Cooldown", "", &cooldown{period: period, clock: clock}, child)
}

func (c *cooldown) Modify(child Node, bb any) (Status, Node) {
	now := c.clock.now()
	if c.armed && now.Sub(c.last) < c.period {
		return StatusFailure, nil
	}
	st, origin := child.Update(bb)
	if st.Terminal() {
		c.last = now
		c.armed = true
	}
	return st, origin
}

type timer struct {
	wait    time.Duration
	clock   Clock
	start   time.Time
	started bool
}

// NewTimer reports Running until wait has elapsed since its first update and
// then hands over to the child.
func NewTimer(child Node, wait time.Duration, clock Clock) *Decorator {
	return newDecorator("Timer", "", &timer{wait: wait, clock: clock}, child)
}

func (t *timer) Modify(child Node, bb any) (Status, Node) {
	now := t.clock.now()
	if !t.started {
		t.start = now
		t.started = true
	}
	if now.Sub(t.start) < t.wait {
		return StatusRunning, nil
	}
	st, origin := child.Update(bb)
	if st.Terminal() {
		t.started = false
	}
	return st, origin
}

func (t *timer) Reset() { t.started = false }

type probability struct {
	p       float64
	rng     *rand.Rand
	running bool
}

// NewProbability lets the child run with probability p and fails otherwise.
// Once the gate lets a child through and it reports Running, later updates
// keep it going without a new roll until it settles or the gate is reset.
func NewProbability(child Node, p float64, rng *rand.Rand) *Decorator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return newDecorator("Probability", "", &probability{p: p, rng: rng}, child)
}

func (p *probability) Modify(child Node, bb any) (Status, Node) {
	if !p.running {
		if p.p <= 0 {
			return StatusFailure, nil
		}
		if p.p < 1 && p.rng.Float64() >= p.p {
			return StatusFailure, nil
		}
	}
	st, origin := child.Update(bb)
	p.running = st == StatusRunning
	return st, origin
}

func (p *probability) Reset() { p.running = false }
