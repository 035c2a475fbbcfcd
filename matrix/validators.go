// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Single source of truth for shape checks used before the kernel runs.
//  - Return sentinels wrapped with the validator tag so call sites can match
//    them with errors.Is.
//
// Note:
//  - Composite validators follow a fixed sequence: NotNil → Shape.

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m *Dense) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
// Complexity: O(1).
func ValidateSquare(m *Dense) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquare", err)
	}
	if m.r != m.c {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateMulCompatible checks a·b is defined: both non-nil and a.Cols == b.Rows.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateMulCompatible(a, b *Dense) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.c != b.r {
		return validatorErrorf(
			fmt.Sprintf("ValidateMulCompatible: %dx%d · %dx%d", a.r, a.c, b.r, b.c),
			ErrDimensionMismatch,
		)
	}

	return nil
}

// ValidateProductShape checks that dst can hold a·b (a.Rows × b.Cols).
// Assumes a and b were already validated.
func ValidateProductShape(dst, a, b *Dense) error {
	if err := ValidateNotNil(dst); err != nil {
		return validatorErrorf("ValidateProductShape", err)
	}
	if dst.r != a.r || dst.c != b.c {
		return validatorErrorf("ValidateProductShape", ErrDimensionMismatch)
	}

	return nil
}
