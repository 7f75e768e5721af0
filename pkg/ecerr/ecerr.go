// Package ecerr holds the sentinel errors shared by the field, matrix and
// erasure coding layers. Callers wrap these with github.com/pkg/errors to
// attach context; errors.Is still matches the sentinel underneath.
package ecerr

import "errors"

var (
	// InvalidParameter is returned when field or coder parameters are out of
	// range (degree, polynomial, k, p).
	InvalidParameter = errors.New("invalid parameter")

	// OutOfMemory names an allocation failure. No package in this module
	// currently returns it; non-positive sizes are reported as
	// InvalidParameter.
	OutOfMemory = errors.New("out of memory")

	// ShapeMismatch is returned by matrix operations given incompatible
	// dimensions.
	ShapeMismatch = errors.New("matrix dimension mismatch")

	// NonSquare is returned when inversion is requested on a non-square
	// matrix.
	NonSquare = errors.New("matrix is not square")

	// Singular is returned when Gauss-Jordan elimination cannot find a
	// non-zero pivot.
	Singular = errors.New("matrix is singular")

	// DecodeSingular is returned when the k×k submatrix selected for
	// decoding is singular.
	DecodeSingular = errors.New("decode matrix is singular")

	// Timeout is returned by a queue's timed get on deadline expiry.
	Timeout = errors.New("timed out")
)
