// SPDX-License-Identifier: MIT

// Package matrix: eigenvalue routines.
//
// Eigen performs the cyclic-pivot Jacobi method on symmetric input and
// returns eigenvalues together with eigenvectors. Eigenvalues accepts any
// square matrix: symmetric input is delegated to Eigen, everything else
// goes through a shifted QR iteration that reports the real part of every
// eigenvalue (complex-conjugate pairs appear as two equal real parts).
package matrix

import (
	"fmt"
	"math"
	"sort"
)

// qrShift moves the spectrum to the right before QR iteration so that
// ±λ pairs of non-negative matrices get distinct moduli and separate.
const qrShift = 1.0

// refineSteps bounds the inverse-iteration sweeps used to polish the
// leading eigenvalue after QR iteration settles.
const refineSteps = 4

// qrStableRounds is the number of consecutive iterations whose extracted
// estimates must agree within tol before QR iteration stops.
const qrStableRounds = 3

// Eigen performs Jacobi eigenvalue decomposition on a symmetric matrix m.
// It returns eigenvalues (diagonal order, unsorted) and the matrix Q whose
// columns are the matching eigenvectors.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, tol).
//   - Stage 2: repeatedly zero the largest off-diagonal |A[p,q]| by a plane
//     rotation, accumulating rotations into Q.
//   - Stage 3: verify convergence (max off-diagonal < tol).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrEigenFailed.
//
// Complexity:
//   - O(n²) per rotation (pivot search dominates), worst-case O(maxIter·n²).
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := src.r
	a := src.Clone().(*Dense)
	q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter, i, j, p, q2  int
		maxOff, off        float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		theta, t, c, s     float64
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: pivot search over the strict upper triangle.
		maxOff = ZeroSum
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(a.data[i*n+j])
				if off > maxOff {
					maxOff, p, q2 = off, i, j
				}
			}
		}
		if maxOff < tol {
			break
		}

		// J.2: rotation parameters.
		app = a.data[p*n+p]
		aqq = a.data[q2*n+q2]
		apq = a.data[p*n+q2]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.3: rotate rows/cols p and q of A (symmetric update).
		for i = 0; i < n; i++ {
			if i == p || i == q2 {
				continue
			}
			aip = a.data[i*n+p]
			aiq = a.data[i*n+q2]
			a.data[i*n+p], a.data[p*n+i] = c*aip-s*aiq, c*aip-s*aiq
			a.data[i*n+q2], a.data[q2*n+i] = s*aip+c*aiq, s*aip+c*aiq
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		a.data[q2*n+q2] = s*s*app + 2*c*s*apq + c*c*aqq
		a.data[p*n+q2], a.data[q2*n+p] = 0, 0

		// J.4: accumulate into Q.
		for i = 0; i < n; i++ {
			qip = q.data[i*n+p]
			qiq = q.data[i*n+q2]
			q.data[i*n+p] = c*qip - s*qiq
			q.data[i*n+q2] = s*qip + c*qiq
		}
	}

	maxOff = ZeroSum
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if off = math.Abs(a.data[i*n+j]); off > maxOff {
				maxOff = off
			}
		}
	}
	if maxOff >= tol {
		return nil, nil, matrixErrorf(opEigen, fmt.Errorf("off-diagonal %g after %d rotations: %w", maxOff, iter, ErrEigenFailed))
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}

// Eigenvalues returns the real parts of all n eigenvalues of a square
// matrix, sorted in descending order.
//
// Implementation:
//   - Stage 1: ValidateSquare + ValidateFinite.
//   - Stage 2: symmetric input → Eigen (Jacobi).
//   - Stage 3: otherwise iterate A ← RQ on A+I (Householder QR) until the
//     block-extracted estimates are stable for qrStableRounds iterations.
//   - Stage 4: polish the largest estimate by inverse iteration and a
//     Rayleigh quotient on the original matrix; kept only when its
//     residual is below tol.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrEigenFailed.
//
// Complexity:
//   - Symmetric: as Eigen. General: O(n³) per QR step, at most maxIter steps.
func Eigenvalues(m Matrix, tol float64, maxIter int) ([]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opEigvals, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, matrixErrorf(opEigvals, err)
	}

	var eigs []float64
	if IsSymmetric(m, tol) {
		vals, _, err := Eigen(m, tol, maxIter)
		if err != nil {
			return nil, matrixErrorf(opEigvals, err)
		}
		eigs = vals
	} else {
		vals, err := qrEigenvalues(m, tol, maxIter)
		if err != nil {
			return nil, matrixErrorf(opEigvals, err)
		}
		eigs = vals
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(eigs)))

	return eigs, nil
}

// qrEigenvalues runs unshifted QR iteration on m + qrShift·I.
func qrEigenvalues(m Matrix, tol float64, maxIter int) ([]float64, error) {
	src, err := asDense(m)
	if err != nil {
		return nil, err
	}
	n := src.r
	a := src.Clone().(*Dense)
	for i := 0; i < n; i++ {
		a.data[i*n+i] += qrShift
	}

	prev := extractBlockEigenvalues(a, tol)
	stable := 0
	for iter := 0; iter < maxIter; iter++ {
		q, r := householderQR(a)
		if a, err = Mul(r, q); err != nil {
			return nil, err
		}
		cur := extractBlockEigenvalues(a, tol)
		if maxAbsDiff(prev, cur) <= tol {
			stable++
			if stable >= qrStableRounds {
				for i := range cur {
					cur[i] -= qrShift
				}
				if v, ok := refineEigenvalue(src, cur[0], tol); ok {
					cur[0] = v
				}

				return cur, nil
			}
		} else {
			stable = 0
		}
		prev = cur
	}

	return nil, fmt.Errorf("QR iteration did not settle after %d steps: %w", maxIter, ErrEigenFailed)
}

// refineEigenvalue polishes a real eigenvalue estimate mu of a.
//
// Implementation:
//   - Stage 1: inverse iteration x ← (A − μI)⁻¹x, normalized, refineSteps times.
//   - Stage 2: λ = xᵀAx / xᵀx.
//   - Stage 3: accept λ only if ‖Ax − λx‖ ≤ tol·max(1, |λ|) and λ stays
//     within √tol of mu; complex pairs fail the residual test.
func refineEigenvalue(a *Dense, mu, tol float64) (float64, bool) {
	n := a.r
	shifted := make([]float64, n*n)
	copy(shifted, a.data)
	for i := 0; i < n; i++ {
		shifted[i*n+i] -= mu
	}
	lu, piv := luFactor(shifted, n)

	x := make([]float64, n)
	for i := range x {
		x[i] = 1 + float64(i)/float64(n*n+1)
	}
	var norm float64
	for step := 0; step < refineSteps; step++ {
		luSolve(lu, piv, n, x)
		norm = ZeroSum
		for _, v := range x {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == ZeroSum || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return mu, false
		}
		for i := range x {
			x[i] /= norm
		}
	}

	ax := make([]float64, n)
	var num, den float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ax[i] += a.data[i*n+j] * x[j]
		}
		num += x[i] * ax[i]
		den += x[i] * x[i]
	}
	lambda := num / den

	var res float64
	for i := 0; i < n; i++ {
		d := ax[i] - lambda*x[i]
		res += d * d
	}
	if math.Sqrt(res) > tol*math.Max(1, math.Abs(lambda)) || math.Abs(lambda-mu) > math.Sqrt(tol) {
		return mu, false
	}

	return lambda, true
}

// luFactor computes an in-place LU factorization with partial pivoting.
// Zero pivots are replaced by a tiny value so that a singular A − μI
// still yields a usable inverse-iteration step.
func luFactor(a []float64, n int) ([]float64, []int) {
	piv := make([]int, n)
	var scale float64
	for _, v := range a {
		scale = math.Max(scale, math.Abs(v))
	}
	tiny := math.Max(scale, 1) * 1e-15

	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(a[i*n+k]) > math.Abs(a[p*n+k]) {
				p = i
			}
		}
		piv[k] = p
		if p != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[p*n+j] = a[p*n+j], a[k*n+j]
			}
		}
		if math.Abs(a[k*n+k]) < tiny {
			a[k*n+k] = math.Copysign(tiny, a[k*n+k])
		}
		for i := k + 1; i < n; i++ {
			a[i*n+k] /= a[k*n+k]
			for j := k + 1; j < n; j++ {
				a[i*n+j] -= a[i*n+k] * a[k*n+j]
			}
		}
	}

	return a, piv
}

// luSolve overwrites b with the solution of LU·x = P·b.
func luSolve(lu []float64, piv []int, n int, b []float64) {
	for k := 0; k < n; k++ {
		if p := piv[k]; p != k {
			b[k], b[p] = b[p], b[k]
		}
	}
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			b[i] -= lu[i*n+j] * b[j]
		}
	}
	for i := n - 1; i >= 0; i-- {
		for j := i + 1; j < n; j++ {
			b[i] -= lu[i*n+j] * b[j]
		}
		b[i] /= lu[i*n+i]
	}
}

// householderQR factors a = Q·R with Householder reflections.
// Q is accumulated from the right so that Q·R reproduces a exactly.
func householderQR(a *Dense) (*Dense, *Dense) {
	n := a.r
	r := a.Clone().(*Dense)
	q, _ := NewIdentity(n)
	v := make([]float64, n)

	var (
		i, j, k                int
		norm, alpha, beta, tau float64
		sum                    float64
	)
	for k = 0; k < n-1; k++ {
		norm = ZeroSum
		for i = k; i < n; i++ {
			norm += r.data[i*n+k] * r.data[i*n+k]
		}
		norm = math.Sqrt(norm)
		if norm == ZeroSum {
			continue
		}
		alpha = -math.Copysign(norm, r.data[k*n+k])

		for i = 0; i < n; i++ {
			v[i] = 0
		}
		for i = k; i < n; i++ {
			v[i] = r.data[i*n+k]
		}
		v[k] -= alpha
		beta = ZeroSum
		for i = k; i < n; i++ {
			beta += v[i] * v[i]
		}
		if beta == ZeroSum {
			continue
		}
		tau = 2.0 / beta

		// R ← H·R
		for j = 0; j < n; j++ {
			sum = ZeroSum
			for i = k; i < n; i++ {
				sum += v[i] * r.data[i*n+j]
			}
			for i = k; i < n; i++ {
				r.data[i*n+j] -= tau * v[i] * sum
			}
		}
		// Q ← Q·H
		for i = 0; i < n; i++ {
			sum = ZeroSum
			for j = k; j < n; j++ {
				sum += q.data[i*n+j] * v[j]
			}
			for j = k; j < n; j++ {
				q.data[i*n+j] -= tau * sum * v[j]
			}
		}
	}

	return q, r
}

// extractBlockEigenvalues reads eigenvalue estimates off a quasi-triangular
// matrix: 1×1 diagonal entries where the subdiagonal has vanished, and the
// eigenvalues (real parts) of 2×2 blocks otherwise. Result is sorted descending.
func extractBlockEigenvalues(a *Dense, tol float64) []float64 {
	n := a.r
	out := make([]float64, 0, n)
	var (
		aa, bb, cc, dd float64
		half, disc     float64
	)
	for i := 0; i < n; {
		if i == n-1 || math.Abs(a.data[(i+1)*n+i]) <= tol {
			out = append(out, a.data[i*n+i])
			i++
			continue
		}
		aa, bb = a.data[i*n+i], a.data[i*n+i+1]
		cc, dd = a.data[(i+1)*n+i], a.data[(i+1)*n+i+1]
		half = (aa + dd) / 2
		disc = half*half - (aa*dd - bb*cc)
		if disc >= 0 {
			out = append(out, half+math.Sqrt(disc), half-math.Sqrt(disc))
		} else {
			out = append(out, half, half)
		}
		i += 2
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))

	return out
}

func maxAbsDiff(a, b []float64) float64 {
	d := ZeroSum
	for i := range a {
		if x := math.Abs(a[i] - b[i]); x > d {
			d = x
		}
	}

	return d
}
