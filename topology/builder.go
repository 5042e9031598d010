// SPDX-License-Identifier: MIT

package topology

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/katalvlaran/meshlytics/matrix"
)

// Default spectrum settings used by Builder.Snapshot and the file loaders.
const (
	DefaultSpectrumTolerance     = 1e-10
	DefaultSpectrumMaxIterations = 10000
)

// SpectrumOptions controls eigenvalue computation when freezing a snapshot.
type SpectrumOptions struct {
	Tolerance     float64
	MaxIterations int
	// Skip leaves the spectrum empty; the engine then falls back to λmax = 1.
	Skip bool
}

// DefaultSpectrumOptions returns tolerance 1e-10 and 10000 iterations.
func DefaultSpectrumOptions() SpectrumOptions {
	return SpectrumOptions{
		Tolerance:     DefaultSpectrumTolerance,
		MaxIterations: DefaultSpectrumMaxIterations,
	}
}

// Link is one weighted edge From→To.
type Link struct {
	From   NodeID
	To     NodeID
	Weight float64
}

// Builder is a goroutine-safe link table.
// Undirected builders (the default) mirror every link.
// All mutations are protected by an internal RWMutex.
type Builder struct {
	mu       sync.RWMutex
	directed bool
	nodes    map[NodeID]struct{}
	links    map[NodeID]map[NodeID]float64
}

// BuilderOption customizes NewBuilder.
type BuilderOption func(*Builder)

// WithDirected keeps links one-way.
func WithDirected() BuilderOption {
	return func(b *Builder) { b.directed = true }
}

// NewBuilder constructs an empty link table.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		nodes: make(map[NodeID]struct{}),
		links: make(map[NodeID]map[NodeID]float64),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Directed reports whether links are one-way.
func (b *Builder) Directed() bool { return b.directed }

// AddNode registers id. Adding an existing node is a no-op.
func (b *Builder) AddNode(id NodeID) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nodes[id] = struct{}{}

	return nil
}

// RemoveNode drops id and every link touching it (device leave).
// Reports whether the node existed.
func (b *Builder) RemoveNode(id NodeID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.nodes[id]; !ok {
		return false
	}
	delete(b.nodes, id)
	delete(b.links, id)
	for _, out := range b.links {
		delete(out, id)
	}

	return true
}

// SetLink sets the weight from→to, registering both nodes if needed.
// Undirected builders also set to→from.
//
// Errors:
//   - ErrEmptyNodeID, ErrSelfLoop, ErrInvalidWeight.
func (b *Builder) SetLink(from, to NodeID, weight float64) error {
	if from == "" || to == "" {
		return ErrEmptyNodeID
	}
	if from == to {
		return fmt.Errorf("%q: %w", from, ErrSelfLoop)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%q→%q: %w", from, to, ErrInvalidWeight)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nodes[from] = struct{}{}
	b.nodes[to] = struct{}{}
	b.setLocked(from, to, weight)
	if !b.directed {
		b.setLocked(to, from, weight)
	}

	return nil
}

func (b *Builder) setLocked(from, to NodeID, weight float64) {
	out, ok := b.links[from]
	if !ok {
		out = make(map[NodeID]float64)
		b.links[from] = out
	}
	out[to] = weight
}

// RemoveLink drops from→to (and the mirror when undirected).
// Reports whether a link existed.
func (b *Builder) RemoveLink(from, to NodeID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.links[from][to]
	delete(b.links[from], to)
	if !b.directed {
		delete(b.links[to], from)
	}

	return ok
}

// Link returns the weight from→to.
func (b *Builder) Link(from, to NodeID) (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	w, ok := b.links[from][to]
	return w, ok
}

// NodeCount returns the number of registered nodes.
func (b *Builder) NodeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.nodes)
}

// Nodes returns the registered node ids in lexicographic order.
func (b *Builder) Nodes() []NodeID {
	b.mu.RLock()
	out := make([]NodeID, 0, len(b.nodes))
	for id := range b.nodes {
		out = append(out, id)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Links returns every link sorted by (From, To).
func (b *Builder) Links() []Link {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Link, 0)
	for from, row := range b.links {
		for to, w := range row {
			out = append(out, Link{From: from, To: to, Weight: w})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})

	return out
}

// Snapshot freezes the current table. Nodes are indexed in lexicographic
// order; the spectrum is computed with matrix.Eigenvalues unless opts.Skip.
//
// Implementation:
//   - Stage 1: copy nodes and weights under the read lock.
//   - Stage 2: outside the lock, build the dense adjacency and spectrum.
//
// Errors:
//   - ErrNoNodes; matrix.ErrEigenFailed when the spectrum does not settle.
//
// Complexity: O(n²) plus the eigenvalue routine.
func (b *Builder) Snapshot(opts SpectrumOptions, snapOpts ...SnapshotOption) (*Snapshot, error) {
	b.mu.RLock()
	ids := make([]NodeID, 0, len(b.nodes))
	for id := range b.nodes {
		ids = append(ids, id)
	}
	weights := make(map[NodeID]map[NodeID]float64, len(b.links))
	for from, row := range b.links {
		cp := make(map[NodeID]float64, len(row))
		for to, w := range row {
			cp[to] = w
		}
		weights[from] = cp
	}
	b.mu.RUnlock()

	if len(ids) == 0 {
		return nil, ErrNoNodes
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	mapping, err := NewIndexMapping(ids)
	if err != nil {
		return nil, err
	}

	n := len(ids)
	adj, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for from, row := range weights {
		i, _ := mapping.Index(from)
		for to, w := range row {
			j, _ := mapping.Index(to)
			if err = adj.Set(i, j, w); err != nil {
				return nil, err
			}
		}
	}

	return FromAdjacency(mapping, adj, opts, snapOpts...)
}

// FromAdjacency freezes an adjacency matrix, computing its spectrum unless
// opts.Skip is set.
func FromAdjacency(mapping *IndexMapping, adj matrix.Matrix, opts SpectrumOptions, snapOpts ...SnapshotOption) (*Snapshot, error) {
	var eigs []float64
	if !opts.Skip {
		if err := matrix.ValidateSquare(adj); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDimension, err)
		}
		vals, err := matrix.Eigenvalues(adj, opts.Tolerance, opts.MaxIterations)
		if err != nil {
			return nil, fmt.Errorf("spectrum: %w", err)
		}
		eigs = vals
	}

	return NewSnapshot(mapping, adj, eigs, snapOpts...)
}
