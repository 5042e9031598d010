// SPDX-License-Identifier: MIT

package centrality

import (
	"fmt"
	"math"

	"github.com/katalvlaran/meshlytics/matrix"
	"github.com/katalvlaran/meshlytics/topology"
)

// DiffusionAlgorithm names the diffusion-centrality algorithm in reports.
const DiffusionAlgorithm = "diffusion"

// FallbackLambda is λmax when the spectrum is empty.
// Kept as a documented default; see DESIGN.md.
const FallbackLambda = 1.0

const (
	opDiffusion = "DiffusionCentrality"
	opMatrix    = "DiffusionMatrix"
	opCompute   = "Compute"
)

// LargestEigenvalue returns max(eigenvalues), or FallbackLambda when empty.
func LargestEigenvalue(eigenvalues []float64) float64 {
	if len(eigenvalues) == 0 {
		return FallbackLambda
	}
	lambda := eigenvalues[0]
	for _, v := range eigenvalues[1:] {
		if v > lambda {
			lambda = v
		}
	}

	return lambda
}

// DiffusionMatrix returns H = Σ_{t=1..depth} (q·adj)^t.
//
// Implementation:
//   - Stage 1: S = q·adj.
//   - Stage 2: P ← S; H ← S; repeat depth-1 times: P ← S·P; H ← H + P.
//
// Errors:
//   - ErrConfiguration when depth < 1.
//   - ErrDimension when adj is nil or not square.
//   - ErrNumeric when q is not finite.
//
// Complexity: O(depth·n³) time, O(n²) space.
func DiffusionMatrix(adj matrix.Matrix, q float64, depth int) (*matrix.Dense, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%s: depth %d: %w", opMatrix, depth, ErrConfiguration)
	}
	if err := matrix.ValidateSquare(adj); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opMatrix, ErrDimension, err)
	}
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return nil, fmt.Errorf("%s: q=%v: %w", opMatrix, q, ErrNumeric)
	}

	scaled, err := matrix.Scale(adj, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opMatrix, ErrNumeric, err)
	}
	power := scaled
	h := scaled.Clone().(*matrix.Dense)
	for t := 2; t <= depth; t++ {
		if power, err = matrix.Mul(scaled, power); err != nil {
			return nil, fmt.Errorf("%s: t=%d: %w", opMatrix, t, err)
		}
		if h, err = matrix.Add(h, power); err != nil {
			return nil, fmt.Errorf("%s: t=%d: %w", opMatrix, t, err)
		}
	}

	return h, nil
}

// DiffusionCentrality scores every ordered node pair of an n-node topology.
//
// Implementation:
//   - Stage 1: resolve T from params (default 5).
//   - Stage 2: validate n ≥ 1, mapping and adj of size n, spectrum of
//     length 0 or n, every input finite.
//   - Stage 3: λmax from the spectrum (1.0 when empty); reject λmax = 0
//     and a non-finite q = 1/λmax.
//   - Stage 4: H = DiffusionMatrix(adj, q, T).
//   - Stage 5: per row, rowSum = Σ_j H[i][j]; reject zero or non-finite
//     sums; score[i][j] = H[i][j]/rowSum for j ≠ i and rowSum for j = i.
//
// Errors:
//   - ErrConfiguration, ErrDimension, ErrDegenerateGraph, ErrNumeric.
//
// Complexity: O(T·n³) time, O(n²) space.
func DiffusionCentrality(
	adj matrix.Matrix,
	mapping *topology.IndexMapping,
	params Parameters,
	eigenvalues []float64,
	n int,
) (*Result, error) {
	depth, err := params.Depth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDiffusion, err)
	}
	if err = validateInputs(adj, mapping, eigenvalues, n); err != nil {
		return nil, fmt.Errorf("%s: %w", opDiffusion, err)
	}

	lambda := LargestEigenvalue(eigenvalues)
	if lambda == 0 {
		return nil, fmt.Errorf("%s: λmax = 0: %w", opDiffusion, ErrDegenerateGraph)
	}
	q := 1 / lambda
	if math.IsInf(q, 0) || math.IsNaN(q) {
		return nil, fmt.Errorf("%s: q = 1/%v is not finite: %w", opDiffusion, lambda, ErrDegenerateGraph)
	}

	h, err := DiffusionMatrix(adj, q, depth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDiffusion, err)
	}
	sums, err := matrix.RowSums(h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDiffusion, err)
	}

	scores := make([][]float64, n)
	var row []float64
	for i := 0; i < n; i++ {
		id, _ := mapping.ID(i)
		rowSum := sums[i]
		if math.IsNaN(rowSum) || math.IsInf(rowSum, 0) {
			return nil, fmt.Errorf("%s: row %q sum %v: %w", opDiffusion, id, rowSum, ErrNumeric)
		}
		if rowSum == 0 {
			return nil, fmt.Errorf("%s: row %q sums to zero: %w", opDiffusion, id, ErrDegenerateGraph)
		}
		if row, err = h.Row(i); err != nil {
			return nil, fmt.Errorf("%s: %w", opDiffusion, err)
		}
		for j := range row {
			if j == i {
				row[j] = rowSum
				continue
			}
			row[j] /= rowSum
			if math.IsNaN(row[j]) || math.IsInf(row[j], 0) {
				return nil, fmt.Errorf("%s: score %q→%d is %v: %w", opDiffusion, id, j, row[j], ErrNumeric)
			}
		}
		scores[i] = row
	}

	return newResult(mapping, scores)
}

// Compute runs DiffusionCentrality on a frozen snapshot.
func Compute(snapshot *topology.Snapshot, params Parameters) (*Result, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("%s: nil snapshot: %w", opCompute, ErrDimension)
	}

	return DiffusionCentrality(
		snapshot.Adjacency(),
		snapshot.Mapping(),
		params,
		snapshot.Eigenvalues(),
		snapshot.Len(),
	)
}

func validateInputs(adj matrix.Matrix, mapping *topology.IndexMapping, eigenvalues []float64, n int) error {
	if n < 1 {
		return fmt.Errorf("n = %d: %w", n, ErrDimension)
	}
	if mapping == nil || mapping.Len() != n {
		got := 0
		if mapping != nil {
			got = mapping.Len()
		}
		return fmt.Errorf("mapping covers %d nodes, n = %d: %w", got, n, ErrDimension)
	}
	if err := matrix.ValidateSquare(adj); err != nil {
		return fmt.Errorf("%w: %w", ErrDimension, err)
	}
	if adj.Rows() != n {
		return fmt.Errorf("adjacency is %dx%d, n = %d: %w", adj.Rows(), adj.Cols(), n, ErrDimension)
	}
	if len(eigenvalues) != 0 && len(eigenvalues) != n {
		return fmt.Errorf("%d eigenvalues, n = %d: %w", len(eigenvalues), n, ErrDimension)
	}
	if err := matrix.ValidateFinite(adj); err != nil {
		return fmt.Errorf("%w: %w", ErrNumeric, err)
	}
	for k, v := range eigenvalues {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("eigenvalue %d is %v: %w", k, v, ErrNumeric)
		}
	}

	return nil
}
