// SPDX-License-Identifier: MIT
// Package centrality: sentinel errors and their classification.

package centrality

import "errors"

var (
	// ErrConfiguration indicates a Parameters value the engine cannot use,
	// e.g. T = 2.5, T = 0 or T = NaN.
	ErrConfiguration = errors.New("centrality: invalid configuration")

	// ErrDimension indicates a non-square adjacency matrix, or one whose size
	// disagrees with n, the index mapping or the eigenvalue count.
	ErrDimension = errors.New("centrality: dimension mismatch")

	// ErrDegenerateGraph indicates normalization is undefined:
	// λmax = 0, or a diffusion row sums to zero (isolated node).
	ErrDegenerateGraph = errors.New("centrality: degenerate graph")

	// ErrNumeric indicates a non-finite input or computed score.
	ErrNumeric = errors.New("centrality: non-finite value")
)

// Error kinds reported by Kind.
const (
	KindConfiguration   = "configuration"
	KindDimension       = "dimension"
	KindDegenerateGraph = "degenerate_graph"
	KindNumeric         = "numeric"
	KindUnknown         = "unknown"
)

// Kind classifies err into one of the Kind* labels.
// It returns "" for a nil error and KindUnknown for anything that does not
// wrap one of the package sentinels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrDimension):
		return KindDimension
	case errors.Is(err, ErrDegenerateGraph):
		return KindDegenerateGraph
	case errors.Is(err, ErrNumeric):
		return KindNumeric
	default:
		return KindUnknown
	}
}
