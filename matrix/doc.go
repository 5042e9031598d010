// SPDX-License-Identifier: MIT

// Package matrix offers the dense linear-algebra primitives used by the
// centrality engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set, row
//     iteration (Row, Do) and an in-place elementwise map (Apply).
//   - Allocation-returning kernels: Add, Mul, Scale, RowSums.
//   - Spectral routines: Eigen (Jacobi, symmetric input) and Eigenvalues
//     (any square input, real parts, sorted descending).
//
// Every write path rejects NaN/±Inf, so a matrix built through this package
// only ever holds finite values. Errors are package sentinels matched with
// errors.Is; see errors.go.
//
// Matrices are best for the small dense graphs this module targets
// (tens of nodes), where O(n²) memory and O(n³) products are acceptable.
package matrix
