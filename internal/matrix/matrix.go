package matrix

import (
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// Number is the set of element types a Matrix can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Reader is the read-only surface shared by Matrix and View.
//
// Row returns the logical cells of row i (Cols elements). Slices returned by
// a View alias the caller's memory and must not be written to.
type Reader[T Number] interface {
	Rows() int
	Cols() int
	Step() int
	At(i, j int) T
	Row(i int) []T
	Region(i, j, rows, cols int) (*Matrix[T], error)
}

// ElemSize returns sizeof(T) in bytes.
func ElemSize[T Number]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// grid is the layout shared by owned and borrowed matrices.
type grid[T Number] struct {
	rows int
	cols int
	step int // bytes between rows
	data []T
}

// Rows returns the number of rows.
func (g *grid[T]) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *grid[T]) Cols() int { return g.cols }

// Step returns the row stride in bytes.
func (g *grid[T]) Step() int { return g.step }

// Empty reports whether the matrix holds no cells.
func (g *grid[T]) Empty() bool { return g.rows == 0 || g.cols == 0 }

// pitch is the row stride in elements.
func (g *grid[T]) pitch() int {
	return g.step / ElemSize[T]()
}

// At returns the element at row i, column j.
func (g *grid[T]) At(i, j int) T {
	return g.data[i*g.pitch()+j]
}

// Row returns the logical cells of row i.
func (g *grid[T]) Row(i int) []T {
	off := i * g.pitch()
	return g.data[off : off+g.cols : off+g.cols]
}

// Region copies the rows x cols block whose top-left cell is (i, j) into a
// new owned matrix.
func (g *grid[T]) Region(i, j, rows, cols int) (*Matrix[T], error) {
	if i < 0 || j < 0 || rows < 0 || cols < 0 || i+rows > g.rows || j+cols > g.cols {
		return nil, fmt.Errorf("%w: region (%d,%d) %dx%d in %dx%d",
			ErrOutOfBounds, i, j, rows, cols, g.rows, g.cols)
	}
	out, err := New[T](rows, cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < rows; r++ {
		copy(out.Row(r), g.Row(i+r)[j:j+cols])
	}
	return out, nil
}

// String renders the matrix as "[[a b] [c d]]".
func (g *grid[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < g.rows; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, g.Row(i))
	}
	b.WriteByte(']')
	return b.String()
}

// Matrix is a strided 2D buffer that owns its storage.
//
// The zero value is an empty matrix ready for Resize.
type Matrix[T Number] struct {
	grid[T]
}

// New allocates a zeroed rows x cols matrix with a tight step.
func New[T Number](rows, cols int) (*Matrix[T], error) {
	return NewWithStep[T](rows, cols, 0)
}

// NewWithStep allocates a zeroed matrix whose rows are step bytes apart.
// A step of 0 selects the tight step cols*sizeof(T).
func NewWithStep[T Number](rows, cols, step int) (*Matrix[T], error) {
	m := &Matrix[T]{}
	if err := m.ResizeStep(rows, cols, step); err != nil {
		return nil, err
	}
	return m, nil
}

// FromRows builds a matrix from row slices. All rows must have equal length.
func FromRows[T Number](rows [][]T) (*Matrix[T], error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m, err := New[T](len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrDimensionMismatch, i, len(r), cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// Clone deep-copies any Reader into a new owned matrix with the same step.
func Clone[T Number](src Reader[T]) (*Matrix[T], error) {
	out, err := NewWithStep[T](src.Rows(), src.Cols(), src.Step())
	if err != nil {
		return nil, err
	}
	for i := 0; i < src.Rows(); i++ {
		copy(out.Row(i), src.Row(i))
	}
	return out, nil
}

// Cast copies src into a new tightly packed matrix of element type U.
// Values are converted with Go conversion rules.
func Cast[U, T Number](src Reader[T]) (*Matrix[U], error) {
	out, err := New[U](src.Rows(), src.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < src.Rows(); i++ {
		dst := out.Row(i)
		for j, v := range src.Row(i) {
			dst[j] = U(v)
		}
	}
	return out, nil
}

// Copy deep-copies src into dst. If the shapes differ dst is resized first,
// keeping its step when that step is still wide enough.
func Copy[T Number](dst *Matrix[T], src Reader[T]) error {
	if dst.rows != src.Rows() || dst.cols != src.Cols() {
		step := dst.step
		if step < src.Cols()*ElemSize[T]() {
			step = 0
		}
		if err := dst.ResizeStep(src.Rows(), src.Cols(), step); err != nil {
			return err
		}
	}
	for i := 0; i < src.Rows(); i++ {
		copy(dst.Row(i), src.Row(i))
	}
	return nil
}

// Equal reports whether a and b have the same shape and cells. Steps may
// differ.
func Equal[T Number](a, b Reader[T]) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := 0; i < a.Rows(); i++ {
		ra, rb := a.Row(i), b.Row(i)
		for j := range ra {
			if ra[j] != rb[j] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of m.
func (m *Matrix[T]) Clone() (*Matrix[T], error) {
	return Clone[T](m)
}

// Set stores v at row i, column j.
func (m *Matrix[T]) Set(i, j int, v T) {
	m.data[i*m.pitch()+j] = v
}

// Fill assigns v to every cell.
func (m *Matrix[T]) Fill(v T) {
	for i := 0; i < m.rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = v
		}
	}
}

// Resize reshapes m to rows x cols with a tight step. Content is cleared.
func (m *Matrix[T]) Resize(rows, cols int) error {
	return m.ResizeStep(rows, cols, 0)
}

// ResizeStep reshapes m to rows x cols with rows step bytes apart, reusing
// the existing allocation when it is large enough. Content is cleared. A step
// of 0 selects the tight step.
func (m *Matrix[T]) ResizeStep(rows, cols, step int) error {
	n, step, err := layout[T](rows, cols, step)
	if err != nil {
		return err
	}
	if cap(m.data) >= n {
		m.data = m.data[:n]
		clear(m.data)
	} else {
		buf, err := alloc[T](n)
		if err != nil {
			return err
		}
		m.data = buf
	}
	m.rows, m.cols, m.step = rows, cols, step
	return nil
}

// Reshape changes the logical shape of m without touching its bytes. The
// existing allocation must already hold rows*step bytes.
func (m *Matrix[T]) Reshape(rows, cols, step int) error {
	n, step, err := layout[T](rows, cols, step)
	if err != nil {
		return err
	}
	if cap(m.data) < n {
		return fmt.Errorf("%w: reshape to %dx%d step %d needs %d elements, have %d",
			ErrOutOfBounds, rows, cols, step, n, cap(m.data))
	}
	m.data = m.data[:n]
	m.rows, m.cols, m.step = rows, cols, step
	return nil
}

// Storage returns the full backing allocation, including capacity beyond
// Rows*Step.
func (m *Matrix[T]) Storage() []T {
	return m.data[:cap(m.data)]
}

// Cap returns the capacity of the backing allocation in elements.
func (m *Matrix[T]) Cap() int {
	return cap(m.data)
}

// MoveTo transfers m's storage to dst and leaves m empty.
func (m *Matrix[T]) MoveTo(dst *Matrix[T]) {
	if dst == m {
		return
	}
	dst.grid = m.grid
	m.grid = grid[T]{}
}

// Release drops the storage and leaves m empty.
func (m *Matrix[T]) Release() {
	m.grid = grid[T]{}
}

// View is a read-only matrix over caller-owned memory.
type View[T Number] struct {
	grid[T]
}

// Wrap returns a View over data without copying. A step of 0 selects the
// tight step. data must hold at least (rows-1)*step + cols*sizeof(T) bytes.
func Wrap[T Number](data []T, rows, cols, step int) (*View[T], error) {
	_, step, err := layout[T](rows, cols, step)
	if err != nil {
		return nil, err
	}
	need := 0
	if rows > 0 && cols > 0 {
		need = (rows-1)*(step/ElemSize[T]()) + cols
	}
	if len(data) < need {
		return nil, fmt.Errorf("%w: wrapped buffer has %d elements, need %d",
			ErrOutOfBounds, len(data), need)
	}
	return &View[T]{grid[T]{rows: rows, cols: cols, step: step, data: data}}, nil
}

// Clone materializes an owned copy of the view.
func (v *View[T]) Clone() (*Matrix[T], error) {
	return Clone[T](v)
}

// layout validates a shape and returns the element count of the backing
// buffer along with the resolved step.
func layout[T Number](rows, cols, step int) (int, int, error) {
	if rows < 0 || cols < 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	size := ElemSize[T]()
	if cols > math.MaxInt/size {
		return 0, 0, fmt.Errorf("%w: %d columns", ErrAllocation, cols)
	}
	if step == 0 {
		step = cols * size
	}
	if step < cols*size || step%size != 0 {
		return 0, 0, fmt.Errorf("%w: step %d for %d columns of %d bytes",
			ErrInvalidStep, step, cols, size)
	}
	pitch := step / size
	if pitch != 0 && rows > math.MaxInt/pitch {
		return 0, 0, fmt.Errorf("%w: %d rows of %d bytes", ErrAllocation, rows, step)
	}
	return rows * pitch, step, nil
}

// alloc converts the runtime panic for an impossible make into ErrAllocation.
func alloc[T Number](n int) (buf []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %d elements: %v", ErrAllocation, n, r)
		}
	}()
	return make([]T, n), nil
}
