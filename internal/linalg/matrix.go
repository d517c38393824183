package linalg

// Matrix is a dense, row-major f32 matrix backed by one flat buffer.
type Matrix struct {
	rows, cols int
	data       []float32
	kernel     Kernel
}

// NewMatrix returns a zero-filled rows×cols Matrix using the naive
// compute kernel.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		rows:   rows,
		cols:   cols,
		data:   make([]float32, rows*cols),
		kernel: NaiveKernel{},
	}
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) float32 { return m.data[row*m.cols+col] }

// Set assigns the element at (row, col).
func (m *Matrix) Set(row, col int, x float32) { m.data[row*m.cols+col] = x }

// Add increments the element at (row, col) by delta.
func (m *Matrix) Add(row, col int, delta float32) { m.data[row*m.cols+col] += delta }

// Row returns a non-owning view over one row. Mutating the returned
// Vector mutates the matrix.
func (m *Matrix) Row(row int) Vector {
	start := row * m.cols
	return View(m.data[start : start+m.cols])
}

// SetKernel overrides the compute backend used by TransposedMatVec. The
// default is NaiveKernel; an accelerated backend can be swapped in at
// construction time without changing call sites.
func (m *Matrix) SetKernel(k Kernel) { m.kernel = k }

// TransposedMatVec fills out with Mᵀ·vec: out[j] = Σ_i M[i][j]·vec[i].
// vec must have length Rows(); out must have length Cols().
func (m *Matrix) TransposedMatVec(vec, out Vector) {
	m.kernel.TransposedMatVec(m, vec, out)
}

// Resize grows or shrinks the matrix to newRows×newCols. Under Preserve,
// the overlapping top-left newRows×newCols (or rows×cols, whichever is
// smaller in each dimension) region is carried over; everything else is
// zero-filled. Under Fresh, the result is entirely zero-filled.
func (m *Matrix) Resize(newRows, newCols int, mode ResizeMode) {
	if newRows == m.rows && newCols == m.cols {
		if mode == Fresh {
			clear(m.data)
		}
		return
	}
	data := make([]float32, newRows*newCols)
	if mode == Preserve {
		copyRows := min(m.rows, newRows)
		copyCols := min(m.cols, newCols)
		for i := 0; i < copyRows; i++ {
			srcStart := i * m.cols
			dstStart := i * newCols
			copy(data[dstStart:dstStart+copyCols], m.data[srcStart:srcStart+copyCols])
		}
	}
	m.rows, m.cols, m.data = newRows, newCols, data
}
