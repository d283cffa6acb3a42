package matrix

import "errors"

var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
	// ErrInvalidShape is returned for negative row or column counts.
	ErrInvalidShape = errors.New("matrix: invalid shape")
	// ErrInvalidStep is returned when a step is smaller than a row or is not a
	// multiple of the element size.
	ErrInvalidStep = errors.New("matrix: invalid step")
	// ErrInvalidKernel is returned when a convolution kernel is not odd-sized.
	ErrInvalidKernel = errors.New("matrix: invalid kernel")
	// ErrOutOfBounds is returned when a region or wrapped buffer does not fit.
	ErrOutOfBounds = errors.New("matrix: out of bounds")
	// ErrAllocation is returned when storage for a matrix cannot be allocated.
	ErrAllocation = errors.New("matrix: allocation failed")
	// ErrDivideByZero is returned by DivScalar when the divisor is zero.
	ErrDivideByZero = errors.New("matrix: division by zero")
)
