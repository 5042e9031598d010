// SPDX-License-Identifier: MIT

package topology

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/katalvlaran/meshlytics/matrix"
)

// Snapshot is an immutable capture of mesh topology at one instant.
// All accessors return copies, so a *Snapshot may be shared freely between
// goroutines without synchronization.
type Snapshot struct {
	mapping     *IndexMapping
	adjacency   *matrix.Dense
	eigenvalues []float64
	capturedAt  time.Time
	fingerprint string
}

// SnapshotOption customizes NewSnapshot.
type SnapshotOption func(*Snapshot)

// WithCapturedAt overrides the capture timestamp (defaults to time.Now).
func WithCapturedAt(t time.Time) SnapshotOption {
	return func(s *Snapshot) { s.capturedAt = t }
}

// NewSnapshot validates and freezes a topology.
//
// Implementation:
//   - Stage 1: mapping non-nil; adjacency square with n = mapping.Len().
//   - Stage 2: every adjacency entry and eigenvalue finite.
//   - Stage 3: eigenvalue count is 0 (unknown spectrum) or n.
//   - Stage 4: deep-copy inputs and compute the fingerprint.
//
// Errors:
//   - ErrNoNodes, ErrDimension, ErrNonFinite.
//
// Complexity: O(n²).
func NewSnapshot(mapping *IndexMapping, adjacency matrix.Matrix, eigenvalues []float64, opts ...SnapshotOption) (*Snapshot, error) {
	if mapping == nil || mapping.Len() == 0 {
		return nil, ErrNoNodes
	}
	if err := matrix.ValidateSquare(adjacency); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDimension, err)
	}
	n := mapping.Len()
	if adjacency.Rows() != n {
		return nil, fmt.Errorf("adjacency is %dx%d, mapping has %d nodes: %w", adjacency.Rows(), adjacency.Cols(), n, ErrDimension)
	}
	if err := matrix.ValidateFinite(adjacency); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNonFinite, err)
	}
	if len(eigenvalues) != 0 && len(eigenvalues) != n {
		return nil, fmt.Errorf("%d eigenvalues for %d nodes: %w", len(eigenvalues), n, ErrDimension)
	}
	for k, v := range eigenvalues {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("eigenvalue %d: %w", k, ErrNonFinite)
		}
	}

	adj := make([][]float64, n)
	var err error
	for i := 0; i < n; i++ {
		adj[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if adj[i][j], err = adjacency.At(i, j); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDimension, err)
			}
		}
	}
	dense, err := matrix.NewDenseFromRows(adj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNonFinite, err)
	}

	s := &Snapshot{
		mapping:     mapping,
		adjacency:   dense,
		eigenvalues: append([]float64(nil), eigenvalues...),
		capturedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fingerprint = fingerprint(mapping, dense)

	return s, nil
}

// Len returns n, the number of nodes.
func (s *Snapshot) Len() int { return s.mapping.Len() }

// Mapping returns the index mapping. IndexMapping is itself immutable.
func (s *Snapshot) Mapping() *IndexMapping { return s.mapping }

// Adjacency returns a private copy of the adjacency matrix.
func (s *Snapshot) Adjacency() *matrix.Dense { return s.adjacency.Clone().(*matrix.Dense) }

// Eigenvalues returns a copy of the spectrum (possibly empty).
func (s *Snapshot) Eigenvalues() []float64 { return append([]float64(nil), s.eigenvalues...) }

// CapturedAt returns when the snapshot was taken.
func (s *Snapshot) CapturedAt() time.Time { return s.capturedAt }

// Fingerprint is a stable hex digest of node order and adjacency, used to
// correlate log lines and API responses. It is not a cache key.
func (s *Snapshot) Fingerprint() string { return s.fingerprint }

func fingerprint(mapping *IndexMapping, adj *matrix.Dense) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, id := range mapping.ids {
		_, _ = h.Write([]byte(id))
		_, _ = h.Write([]byte{0})
	}
	adj.Do(func(_, _ int, v float64) bool {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
		return true
	})

	return hex.EncodeToString(h.Sum(nil))
}
