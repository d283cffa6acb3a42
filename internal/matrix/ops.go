package matrix

import "fmt"

func sameShape[T Number](a, b Reader[T]) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("%w: %dx%d and %dx%d",
			ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	return nil
}

// Add returns a + b element-wise.
func Add[T Number](a, b Reader[T]) (*Matrix[T], error) {
	return zipWith(a, b, func(x, y T) T { return x + y })
}

// Subtract returns a - b element-wise.
func Subtract[T Number](a, b Reader[T]) (*Matrix[T], error) {
	return zipWith(a, b, func(x, y T) T { return x - y })
}

func zipWith[T Number](a, b Reader[T], op func(x, y T) T) (*Matrix[T], error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	out, err := New[T](a.Rows(), a.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Rows(); i++ {
		dst, ra, rb := out.Row(i), a.Row(i), b.Row(i)
		for j := range dst {
			dst[j] = op(ra[j], rb[j])
		}
	}
	return out, nil
}

// Multiply returns the matrix product a x b, shaped a.Rows() x b.Cols().
func Multiply[T Number](a, b Reader[T]) (*Matrix[T], error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("%w: cannot multiply %dx%d by %dx%d",
			ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	// Walking rows of the transposed rhs keeps the inner loop contiguous.
	bt, err := Transpose(b)
	if err != nil {
		return nil, err
	}
	out, err := New[T](a.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	forRows(a.Rows(), a.Rows()*b.Cols()*a.Cols(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ra, dst := a.Row(i), out.Row(i)
			for j := range dst {
				rb := bt.Row(j)
				var sum T
				for k, v := range ra {
					sum += v * rb[k]
				}
				dst[j] = sum
			}
		}
	})
	return out, nil
}

// Transpose returns a new matrix with rows and columns swapped.
func Transpose[T Number](a Reader[T]) (*Matrix[T], error) {
	out, err := New[T](a.Cols(), a.Rows())
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Rows(); i++ {
		for j, v := range a.Row(i) {
			out.Set(j, i, v)
		}
	}
	return out, nil
}

// AddAssign adds b to m element-wise.
func (m *Matrix[T]) AddAssign(b Reader[T]) error {
	return m.zipAssign(b, func(x, y T) T { return x + y })
}

// SubAssign subtracts b from m element-wise.
func (m *Matrix[T]) SubAssign(b Reader[T]) error {
	return m.zipAssign(b, func(x, y T) T { return x - y })
}

func (m *Matrix[T]) zipAssign(b Reader[T], op func(x, y T) T) error {
	if err := sameShape[T](m, b); err != nil {
		return err
	}
	for i := 0; i < m.rows; i++ {
		dst, rb := m.Row(i), b.Row(i)
		for j := range dst {
			dst[j] = op(dst[j], rb[j])
		}
	}
	return nil
}

// MulAssign replaces m with the product m x b. On error m is unchanged.
func (m *Matrix[T]) MulAssign(b Reader[T]) error {
	out, err := Multiply[T](m, b)
	if err != nil {
		return err
	}
	out.MoveTo(m)
	return nil
}

// AddScalar adds k to every cell.
func (m *Matrix[T]) AddScalar(k T) { m.apply(func(v T) T { return v + k }) }

// SubScalar subtracts k from every cell.
func (m *Matrix[T]) SubScalar(k T) { m.apply(func(v T) T { return v - k }) }

// MulScalar multiplies every cell by k.
func (m *Matrix[T]) MulScalar(k T) { m.apply(func(v T) T { return v * k }) }

// DivScalar divides every cell by k.
func (m *Matrix[T]) DivScalar(k T) error {
	if k == 0 {
		return ErrDivideByZero
	}
	m.apply(func(v T) T { return v / k })
	return nil
}

func (m *Matrix[T]) apply(fn func(T) T) {
	for i := 0; i < m.rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = fn(row[j])
		}
	}
}
