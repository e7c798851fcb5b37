package agent

import (
	"sync"
	"time"

	"github.com/zeusync/bt/internal/core/bt"
)

// Decision is one recorded step of an agent.
type Decision struct {
	Step      uint64        `json:"step"`
	Status    bt.Status     `json:"-"`
	State     string        `json:"status"`
	Origin    string        `json:"origin"`
	RunLength int           `json:"run_length"`
	Duration  time.Duration `json:"duration"`
	At        time.Time     `json:"ts"`
}

// History keeps the most recent decisions in a fixed-size ring.
type History struct {
	mu    sync.RWMutex
	buf   []Decision
	next  int
	count int
}

func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{buf: make([]Decision, size)}
}

func (h *History) Append(d Decision) {
	h.mu.Lock()
	h.buf[h.next] = d
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
	h.mu.Unlock()
}

// Records returns the retained decisions, oldest first.
func (h *History) Records() []Decision {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Decision, 0, h.count)
	start := (h.next - h.count + len(h.buf)) % len(h.buf)
	for i := 0; i < h.count; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *History) Reset() {
	h.mu.Lock()
	h.next, h.count = 0, 0
	h.mu.Unlock()
}

// Last returns the most recent decision.
func (h *History) Last() (Decision, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return Decision{}, false
	}
	return h.buf[(h.next-1+len(h.buf))%len(h.buf)], true
}
