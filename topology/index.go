// SPDX-License-Identifier: MIT

package topology

import "fmt"

// NodeID is an opaque mesh node identifier, unique within a snapshot.
type NodeID string

// IndexMapping is an immutable bijection between [0,n) and a set of NodeIDs.
// Index i maps to ids[i]; index holds the inverse.
type IndexMapping struct {
	ids   []NodeID
	index map[NodeID]int
}

// NewIndexMapping builds the bijection in the order given.
// The slice is copied; later mutation by the caller has no effect.
//
// Errors:
//   - ErrNoNodes, ErrEmptyNodeID, ErrDuplicateNode.
//
// Complexity: O(n).
func NewIndexMapping(ids []NodeID) (*IndexMapping, error) {
	if len(ids) == 0 {
		return nil, ErrNoNodes
	}
	m := &IndexMapping{
		ids:   make([]NodeID, len(ids)),
		index: make(map[NodeID]int, len(ids)),
	}
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("index %d: %w", i, ErrEmptyNodeID)
		}
		if prev, dup := m.index[id]; dup {
			return nil, fmt.Errorf("%q at %d and %d: %w", id, prev, i, ErrDuplicateNode)
		}
		m.ids[i] = id
		m.index[id] = i
	}

	return m, nil
}

// Len returns n, the number of nodes.
func (m *IndexMapping) Len() int { return len(m.ids) }

// ID returns the NodeID at index i.
func (m *IndexMapping) ID(i int) (NodeID, bool) {
	if i < 0 || i >= len(m.ids) {
		return "", false
	}

	return m.ids[i], true
}

// Index returns the dense index of id.
func (m *IndexMapping) Index(id NodeID) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// IDs returns a copy of the NodeIDs in index order.
func (m *IndexMapping) IDs() []NodeID {
	out := make([]NodeID, len(m.ids))
	copy(out, m.ids)

	return out
}
