// SPDX-License-Identifier: MIT

// Package centrality computes diffusion centrality over mesh topology
// snapshots.
//
// Diffusion centrality sums the first T powers of the spectrally scaled
// adjacency matrix,
//
//	H = Σ_{t=1..T} (q·A)^t,  q = 1/λmax,
//
// and reports, for every ordered pair of nodes (i, j):
//
//   - j ≠ i: H[i][j] / rowSum_i, the share of node i's diffused mass that
//     reaches j;
//   - j = i: rowSum_i itself, the total diffusive reach of node i.
//
// The diagonal is deliberately not normalized. λmax is the largest value of
// the snapshot's spectrum; an empty spectrum falls back to λmax = 1.
//
// Every entry point is a pure function. Nothing here locks, logs or keeps
// state, so a computation may run concurrently with readers of any shared
// result holder (see package analytics).
//
// Failures are reported with four sentinels, matched with errors.Is:
//
//   - ErrConfiguration: the depth T is present but not a positive integer.
//   - ErrDimension: adjacency, mapping, n and spectrum disagree in size.
//   - ErrDegenerateGraph: λmax = 0, or some row of H sums to zero.
//   - ErrNumeric: a non-finite input or score.
//
// No partial result is ever returned.
package centrality
