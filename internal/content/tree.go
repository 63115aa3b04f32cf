package content

import (
	"context"
	"fmt"

	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
)

var _ core.ContentTree = (*Tree)(nil)

// Tree is a static content hierarchy built from configuration. It
// implements the content hierarchy boundary with ancestors reported
// nearest-ancestor-first, which is the order the visibility resolver
// expects.
type Tree struct {
	nodes map[core.ContentID]node
}

type node struct {
	parent     core.ContentID
	title      string
	assignment *core.RuleAssignment
}

// NewTree builds a Tree from the configured content nodes.
func NewTree(cfgNodes []config.ContentNode) (*Tree, error) {
	t := &Tree{nodes: make(map[core.ContentID]node, len(cfgNodes))}
	for _, n := range cfgNodes {
		t.nodes[n.ID] = node{
			parent:     n.Parent,
			title:      n.Title,
			assignment: n.Assignment,
		}
	}
	// reject parent cycles up front so Ancestors cannot loop
	for id := range t.nodes {
		seen := map[core.ContentID]struct{}{id: {}}
		for cur := t.nodes[id].parent; cur != 0; cur = t.nodes[cur].parent {
			if _, ok := seen[cur]; ok {
				return nil, fmt.Errorf("content node %d is part of a parent cycle", id)
			}
			seen[cur] = struct{}{}
		}
	}
	return t, nil
}

// Add inserts or replaces a node. Meant for tests.
func (t *Tree) Add(id, parent core.ContentID, title string, assignment *core.RuleAssignment) {
	t.nodes[id] = node{parent: parent, title: title, assignment: assignment}
}

// Title returns the node's title, or "" for unknown nodes.
func (t *Tree) Title(id core.ContentID) string {
	return t.nodes[id].title
}

// IDs returns all node IDs, unordered.
func (t *Tree) IDs() []core.ContentID {
	out := make([]core.ContentID, 0, len(t.nodes))
	for id := range t.nodes {
		out = append(out, id)
	}
	return out
}

func (t *Tree) Ancestors(_ context.Context, id core.ContentID) ([]core.ContentID, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("unknown content node %d", id)
	}
	var ancestors []core.ContentID
	for cur := n.parent; cur != 0; {
		ancestors = append(ancestors, cur)
		next, ok := t.nodes[cur]
		if !ok {
			break
		}
		cur = next.parent
	}
	return ancestors, nil
}

func (t *Tree) RuleAssignment(_ context.Context, id core.ContentID) (*core.RuleAssignment, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("unknown content node %d", id)
	}
	return n.assignment, nil
}
