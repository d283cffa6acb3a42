// Package matrix implements a dense, strided, generic 2D buffer.
//
// A matrix has Rows, Cols and a Step: the number of bytes between the start
// of consecutive rows. Step may exceed Cols*sizeof(T) when rows are padded,
// which is how image buffers keep their 4-byte stride alignment.
//
// # Ownership
//
// Two types share the same layout:
//   - Matrix owns its storage. It can be resized, filled, moved and mutated.
//   - View borrows caller memory (see Wrap). It has no mutating methods; call
//     View.Clone to obtain an owned copy. The caller keeps the wrapped slice
//     alive and unmodified for as long as the View is in use.
//
// Read-only operations accept the Reader interface, so they work on both.
//
// # Arithmetic
//
// Add, Subtract and Multiply return new matrices; AddAssign, SubAssign and
// MulAssign update the receiver. Shape errors are reported as
// ErrDimensionMismatch and never produce a partial result.
//
// # Convolution
//
// Convolve and ConvolveInterleaved centre an odd-sized kernel on every cell
// and sum the products without normalization. EdgeClamp replicates the
// nearest row/column; EdgeZero drops taps that fall outside the input.
//
// # Thread Safety
//
// A Matrix is not safe for concurrent mutation. Multiply and the convolution
// functions split large inputs across goroutines internally and return only
// once every row is written.
package matrix
