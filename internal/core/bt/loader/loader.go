// Package loader builds behavior trees from YAML or JSON documents.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/bt/internal/core/bt"
)

// Document describes one tree.
type Document struct {
	Name string      `json:"name" yaml:"name"`
	Root *NodeConfig `json:"root" yaml:"root"`
}

// NodeConfig describes a node. Type is a composite (sequence, selector,
// tree), a decorator (inverter, succeeder, repeat, cooldown, timer,
// probability) or leaf, in which case Leaf names a registry entry.
type NodeConfig struct {
	Type     string         `json:"type" yaml:"type"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Leaf     string         `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Children []*NodeConfig  `json:"children,omitempty" yaml:"children,omitempty"`
	Child    *NodeConfig    `json:"child,omitempty" yaml:"child,omitempty"`
}

// Options carries what Build needs besides the document.
type Options struct {
	Registry *Registry
	Clock    bt.Clock
	Rand     *rand.Rand
}

// LoadJSON decodes a document from JSON.
func LoadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &d, nil
}

// LoadYAML decodes a document from YAML.
func LoadYAML(r io.Reader) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &d, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported tree file extension: %s", path)
	}
}

// Build turns the document into a tree.
func (d *Document) Build(opts Options) (*bt.Tree, error) {
	if d.Root == nil {
		return nil, errors.New("tree document has no root")
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	b := builder{opts: opts}
	root, err := b.node(d.Root, "root")
	if err != nil {
		return nil, err
	}
	return bt.NewTree(d.Name, root), nil
}

type builder struct {
	opts Options
}

func (b builder) node(nc *NodeConfig, path string) (bt.Node, error) {
	if nc == nil {
		return nil, fmt.Errorf("%s: empty node", path)
	}
	if nc.Name != "" {
		path = nc.Name
	}
	switch strings.ToLower(nc.Type) {
	case "sequence":
		seq := bt.NewSequence(nc.Name)
		return seq, b.children(nc, path, func(n bt.Node) { seq.Add(n) })
	case "selector", "fallback":
		sel := bt.NewSelector(nc.Name)
		return sel, b.children(nc, path, func(n bt.Node) { sel.Add(n) })
	case "tree":
		root, err := b.only(nc, path)
		if err != nil {
			return nil, err
		}
		return bt.NewTree(nc.Name, root), nil
	case "leaf", "action", "condition":
		if nc.Leaf == "" {
			return nil, fmt.Errorf("%s: leaf node requires 'leaf'", path)
		}
		if nc.Child != nil || len(nc.Children) > 0 {
			return nil, fmt.Errorf("%s: leaf nodes take no children", path)
		}
		beh, err := b.opts.Registry.New(nc.Leaf, nc.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		name := nc.Name
		if name == "" {
			name = nc.Leaf
		}
		return bt.NewLeaf(name, beh), nil
	case "inverter", "succeeder", "repeat", "cooldown", "timer", "probability":
		return b.decorator(nc, path)
	default:
		return nil, fmt.Errorf("%s: unsupported node type %q", path, nc.Type)
	}
}

func (b builder) children(nc *NodeConfig, path string, add func(bt.Node)) error {
	if nc.Child != nil {
		return fmt.Errorf("%s: composite nodes take 'children', not 'child'", path)
	}
	for i, ch := range nc.Children {
		n, err := b.node(ch, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return err
		}
		add(n)
	}
	return nil
}

// only resolves the single child of a decorator or subtree.
func (b builder) only(nc *NodeConfig, path string) (bt.Node, error) {
	if nc.Child == nil || len(nc.Children) > 0 {
		return nil, fmt.Errorf("%s: %s requires exactly one 'child'", path, nc.Type)
	}
	return b.node(nc.Child, path+".child")
}

func (b builder) decorator(nc *NodeConfig, path string) (bt.Node, error) {
	child, err := b.only(nc, path)
	if err != nil {
		return nil, err
	}
	var d *bt.Decorator
	switch strings.ToLower(nc.Type) {
	case "inverter":
		d = bt.NewInverter(child)
	case "succeeder":
		d = bt.NewSucceeder(child)
	case "repeat":
		times, err := intParam(nc.Params, "times", 1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if times < 1 {
			return nil, fmt.Errorf("%s: repeat times must be at least 1, got %d", path, times)
		}
		d = bt.NewRepeat(child, times)
	case "cooldown":
		period, err := durationParam(nc.Params, "period")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		d = bt.NewCooldown(child, period, b.opts.Clock)
	case "timer":
		wait, err := durationParam(nc.Params, "wait")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		d = bt.NewTimer(child, wait, b.opts.Clock)
	case "probability":
		p, err := floatParam(nc.Params, "p", 1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("%s: probability %v outside [0,1]", path, p)
		}
		d = bt.NewProbability(child, p, b.opts.Rand)
	}
	return d.Named(nc.Name), nil
}
