// Package snapshot captures the run state of a behavior tree for logs,
// debuggers and the inspector.
package snapshot

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/bt/internal/core/bt"
)

// Entry is one visited node.
type Entry struct {
	Depth     int       `json:"depth"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Status    bt.Status `json:"-"`
	State     string    `json:"status"`
	RunLength int       `json:"run_length"`
	// Active marks the node that produced the last result of the snapshot root.
	Active bool `json:"active,omitempty"`
}

// Snapshot is a pre-order list of entries.
type Snapshot struct {
	Root    string  `json:"root"`
	Status  string  `json:"status"`
	Entries []Entry `json:"entries"`
}

// Take walks n and records every node.
func Take(n bt.Node) Snapshot {
	active := n.LastActive()
	s := Snapshot{Root: n.Name(), Status: n.LastStatus().String()}
	n.Visit(func(cur bt.Node, depth int) bool {
		s.Entries = append(s.Entries, Entry{
			Depth:     depth,
			Name:      cur.Name(),
			Kind:      cur.Kind(),
			Status:    cur.LastStatus(),
			State:     cur.LastStatus().String(),
			RunLength: cur.RunLength(),
			Active:    active != nil && cur == active,
		})
		return true
	}, 0)
	return s
}

// String renders an indented dump, one node per line.
func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", s.Root, s.Status)
	for _, e := range s.Entries {
		b.WriteString(strings.Repeat("  ", e.Depth+1))
		fmt.Fprintf(&b, "%s (%s) %s", e.Name, e.Kind, e.State)
		if e.RunLength > 0 {
			fmt.Fprintf(&b, " x%d", e.RunLength)
		}
		if e.Active {
			b.WriteString(" *")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Fingerprint hashes the rendered snapshot; equal fingerprints mean nothing
// observable changed between two frames.
func (s Snapshot) Fingerprint() uint64 {
	return xxhash.Sum64String(s.String())
}

// Running returns the names of nodes currently running, outermost first.
func (s Snapshot) Running() []string {
	var out []string
	for _, e := range s.Entries {
		if e.Status == bt.StatusRunning {
			out = append(out, e.Name)
		}
	}
	return out
}
