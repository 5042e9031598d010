// SPDX-License-Identifier: MIT
// Package topology: sentinel errors. Match with errors.Is.

package topology

import "errors"

var (
	// ErrNoNodes indicates a mapping or snapshot with zero nodes.
	ErrNoNodes = errors.New("topology: at least one node is required")

	// ErrEmptyNodeID indicates an empty string used as a node identifier.
	ErrEmptyNodeID = errors.New("topology: empty node id")

	// ErrDuplicateNode indicates the same NodeID appears twice in a mapping.
	ErrDuplicateNode = errors.New("topology: duplicate node id")

	// ErrUnknownNode indicates a link references a node that was never added.
	ErrUnknownNode = errors.New("topology: unknown node id")

	// ErrDimension indicates the adjacency matrix does not match the mapping,
	// or the eigenvalue count is neither 0 nor n.
	ErrDimension = errors.New("topology: dimension mismatch")

	// ErrNonFinite indicates a NaN/±Inf adjacency entry or eigenvalue.
	ErrNonFinite = errors.New("topology: non-finite value")

	// ErrSelfLoop indicates a link from a node to itself.
	ErrSelfLoop = errors.New("topology: self loop")

	// ErrInvalidWeight indicates a NaN/±Inf link weight.
	ErrInvalidWeight = errors.New("topology: invalid link weight")

	// ErrTooFewNodes indicates a Shape asked for fewer nodes than it needs.
	ErrTooFewNodes = errors.New("topology: too few nodes for shape")

	// ErrUnknownShape indicates an unrecognized shape name.
	ErrUnknownShape = errors.New("topology: unknown shape")
)
