package untex

// Matrix is a row-major rectangular grid of ints. The core of untex only
// ever stores 0/1 "ink" bitmaps in it, but the diff metric also builds
// intermediate sum matrices, so the element type is left as plain int
// rather than a bool.
type Matrix struct {
	rows, cols int
	data       []int
}

// NewMatrix allocates a rows x cols matrix, zero-filled.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]int, rows*cols)}
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) At(i, j int) int { return m.data[i*m.cols+j] }

func (m *Matrix) Set(i, j, v int) { m.data[i*m.cols+j] = v }

// Fill sets every cell to v.
func (m *Matrix) Fill(v int) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Resized returns a new matrix of the given shape, copying the overlapping
// top-left region and zero-filling the rest.
func (m *Matrix) Resized(rows, cols int) *Matrix {
	res := NewMatrix(rows, cols)
	rend := min(m.rows, rows)
	cend := min(m.cols, cols)
	for r := 0; r < rend; r++ {
		for c := 0; c < cend; c++ {
			res.Set(r, c, m.At(r, c))
		}
	}
	return res
}

// Clone returns an independent deep copy.
func (m *Matrix) Clone() *Matrix {
	res := &Matrix{rows: m.rows, cols: m.cols, data: make([]int, len(m.data))}
	copy(res.data, m.data)
	return res
}

// Equal reports element-wise equality; matrices of differing shape are
// never equal.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

func binaryOp(a, b *Matrix, op func(x, y int) int) *Matrix {
	if a.rows != b.rows || a.cols != b.cols {
		panic("untex: matrix shape mismatch")
	}
	res := NewMatrix(a.rows, a.cols)
	for i := range a.data {
		res.data[i] = op(a.data[i], b.data[i])
	}
	return res
}

func (m *Matrix) Add(other *Matrix) *Matrix { return binaryOp(m, other, func(x, y int) int { return x + y }) }
func (m *Matrix) Sub(other *Matrix) *Matrix { return binaryOp(m, other, func(x, y int) int { return x - y }) }
func (m *Matrix) And(other *Matrix) *Matrix { return binaryOp(m, other, func(x, y int) int { return x & y }) }
func (m *Matrix) Or(other *Matrix) *Matrix  { return binaryOp(m, other, func(x, y int) int { return x | y }) }
func (m *Matrix) Xor(other *Matrix) *Matrix { return binaryOp(m, other, func(x, y int) int { return x ^ y }) }

func (m *Matrix) MulScalar(v int) *Matrix {
	res := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		res.data[i] = m.data[i] * v
	}
	return res
}

func (m *Matrix) DivScalar(v int) *Matrix {
	res := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		res.data[i] = m.data[i] / v
	}
	return res
}

// FloatMatrix is Matrix's floating-point counterpart, used as a working
// buffer by the diff metric (the per-pixel probability weights and the
// accumulated raw-delta matrix).
type FloatMatrix struct {
	rows, cols int
	data       []float64
}

func NewFloatMatrix(rows, cols int) *FloatMatrix {
	return &FloatMatrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

func (m *FloatMatrix) Rows() int { return m.rows }
func (m *FloatMatrix) Cols() int { return m.cols }

func (m *FloatMatrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

func (m *FloatMatrix) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

// SubmatrixView is a borrowed, read-only rectangular window over a Matrix.
// It never copies the host's backing data; Sub composes a view of a view
// into a single view over the same host, and ToMatrix/Resized are the only
// ways to materialise one into an owned Matrix.
type SubmatrixView struct {
	mat            *Matrix
	begRow, begCol int
	rows, cols     int
}

// NewSubmatrixView returns a view over the full extent of mat.
func NewSubmatrixView(mat *Matrix) SubmatrixView {
	return SubmatrixView{mat: mat, rows: mat.Rows(), cols: mat.Cols()}
}

// Sub returns a view of this view's window, rebased onto the same host
// matrix — composing sub-views never nests wrapper layers.
func (v SubmatrixView) Sub(begRow, begCol, rows, cols int) SubmatrixView {
	return SubmatrixView{
		mat:    v.mat,
		begRow: v.begRow + begRow,
		begCol: v.begCol + begCol,
		rows:   rows,
		cols:   cols,
	}
}

func (v SubmatrixView) Rows() int { return v.rows }
func (v SubmatrixView) Cols() int { return v.cols }

func (v SubmatrixView) At(i, j int) int {
	return v.mat.At(v.begRow+i, v.begCol+j)
}

// Resized materialises rows x cols, copying the overlap with the view and
// zero-filling the rest — the same contract as Matrix.Resized.
func (v SubmatrixView) Resized(rows, cols int) *Matrix {
	res := NewMatrix(rows, cols)
	rend := min(v.rows, rows)
	cend := min(v.cols, cols)
	for r := 0; r < rend; r++ {
		for c := 0; c < cend; c++ {
			res.Set(r, c, v.At(r, c))
		}
	}
	return res
}

// ToMatrix materialises the full view into an owned Matrix.
func (v SubmatrixView) ToMatrix() *Matrix {
	return v.Resized(v.rows, v.cols)
}
