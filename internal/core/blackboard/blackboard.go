package blackboard

import (
	"sort"
	"strings"
	"sync"
)

// Blackboard is the shared, namespaced key/value store an agent hands to its
// tree. The engine never looks inside it; leaves and sensors do.
type Blackboard struct {
	root   *store
	prefix string
}

type store struct {
	mu   sync.RWMutex
	data map[string]any
}

// New creates an empty root blackboard.
func New() *Blackboard {
	return &Blackboard{root: &store{data: make(map[string]any)}}
}

func (b *Blackboard) fullKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + ":" + key
}

func (b *Blackboard) Get(key string) (any, bool) {
	full := b.fullKey(key)
	b.root.mu.RLock()
	defer b.root.mu.RUnlock()
	v, ok := b.root.data[full]
	return v, ok
}

func (b *Blackboard) Set(key string, value any) {
	full := b.fullKey(key)
	b.root.mu.Lock()
	b.root.data[full] = value
	b.root.mu.Unlock()
}

func (b *Blackboard) Delete(key string) {
	full := b.fullKey(key)
	b.root.mu.Lock()
	delete(b.root.data, full)
	b.root.mu.Unlock()
}

// Namespace returns a view whose keys are stored under "ns:". Nested
// namespaces stack their prefixes.
func (b *Blackboard) Namespace(ns string) *Blackboard {
	ns = strings.ReplaceAll(ns, ":", "_")
	if b.prefix != "" {
		ns = b.prefix + ":" + ns
	}
	return &Blackboard{root: b.root, prefix: ns}
}

// Keys returns the sorted keys visible from this view, prefix stripped.
func (b *Blackboard) Keys() []string {
	b.root.mu.RLock()
	keys := make([]string, 0, len(b.root.data))
	for k := range b.root.data {
		keys = append(keys, k)
	}
	b.root.mu.RUnlock()
	sort.Strings(keys)
	if b.prefix == "" {
		return keys
	}
	res := make([]string, 0)
	pref := b.prefix + ":"
	for _, k := range keys {
		if strings.HasPrefix(k, pref) {
			res = append(res, strings.TrimPrefix(k, pref))
		}
	}
	return res
}

// Snapshot copies the values visible from this view.
func (b *Blackboard) Snapshot() map[string]any {
	out := make(map[string]any)
	for _, k := range b.Keys() {
		if v, ok := b.Get(k); ok {
			out[k] = v
		}
	}
	return out
}

func (b *Blackboard) GetBool(key string) (bool, bool) {
	v, ok := b.Get(key)
	if !ok {
		return false, false
	}
	bv, ok := v.(bool)
	return bv, ok
}

func (b *Blackboard) GetString(key string) (string, bool) {
	v, ok := b.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetFloat reads any numeric value as float64.
func (b *Blackboard) GetFloat(key string) (float64, bool) {
	v, ok := b.Get(key)
	if !ok {
		return 0, false
	}
	switch tv := v.(type) {
	case float64:
		return tv, true
	case float32:
		return float64(tv), true
	case int:
		return float64(tv), true
	case int64:
		return float64(tv), true
	case int32:
		return float64(tv), true
	case uint:
		return float64(tv), true
	case uint64:
		return float64(tv), true
	default:
		return 0, false
	}
}
