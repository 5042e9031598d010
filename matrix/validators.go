// SPDX-License-Identifier: MIT

// Package matrix: central validators.
// Kernels call these before touching data so every shape/nil/finiteness
// violation surfaces as the same sentinel regardless of the entry point.
package matrix

import (
	"fmt"
	"math"
)

const (
	tagValidateSquare    = "ValidateSquare"
	tagValidateSameShape = "ValidateSameShape"
	tagValidateMul       = "ValidateMulCompatible"
	tagValidateFinite    = "ValidateFinite"
	tagValidateSymmetric = "ValidateSymmetric"
)

// validatorErrorf wraps a sentinel with the validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// isNil reports a nil interface or a typed-nil *Dense.
func isNil(m Matrix) bool {
	if m == nil {
		return true
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return true
	}

	return false
}

// ValidateNotNil returns ErrNilMatrix when m is nil.
func ValidateNotNil(m Matrix) error {
	if isNil(m) {
		return ErrNilMatrix
	}

	return nil
}

// ValidateSquare checks m is non-nil and Rows()==Cols().
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf(tagValidateSquare, err)
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf(tagValidateSquare, fmt.Errorf("%dx%d: %w", m.Rows(), m.Cols(), ErrNonSquare))
	}

	return nil
}

// ValidateSameShape checks both operands are non-nil with identical shapes.
func ValidateSameShape(a, b Matrix) error {
	if isNil(a) || isNil(b) {
		return validatorErrorf(tagValidateSameShape, ErrNilMatrix)
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return validatorErrorf(tagValidateSameShape, fmt.Errorf("%dx%d vs %dx%d: %w",
			a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch))
	}

	return nil
}

// ValidateMulCompatible checks a.Cols()==b.Rows().
func ValidateMulCompatible(a, b Matrix) error {
	if isNil(a) || isNil(b) {
		return validatorErrorf(tagValidateMul, ErrNilMatrix)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf(tagValidateMul, fmt.Errorf("%dx%d × %dx%d: %w",
			a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch))
	}

	return nil
}

// ValidateFinite scans every element and reports the first NaN/±Inf.
// Complexity: O(r*c).
func ValidateFinite(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf(tagValidateFinite, err)
	}
	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return validatorErrorf(tagValidateFinite, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf(tagValidateFinite, fmt.Errorf("(%d,%d): %w", i, j, ErrNaNInf))
			}
		}
	}

	return nil
}

// ValidateSymmetric checks m is square and |m[i,j]-m[j,i]| <= tol for all i<j.
// Complexity: O(n²).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf(tagValidateSymmetric, err)
	}
	var (
		n        = m.Rows()
		i, j     int
		aij, aji float64
		err      error
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if aij, err = m.At(i, j); err != nil {
				return validatorErrorf(tagValidateSymmetric, err)
			}
			if aji, err = m.At(j, i); err != nil {
				return validatorErrorf(tagValidateSymmetric, err)
			}
			if math.Abs(aij-aji) > tol {
				return validatorErrorf(tagValidateSymmetric, fmt.Errorf("(%d,%d): %w", i, j, ErrAsymmetry))
			}
		}
	}

	return nil
}

// IsSymmetric is the boolean form of ValidateSymmetric.
func IsSymmetric(m Matrix, tol float64) bool {
	return ValidateSymmetric(m, tol) == nil
}
