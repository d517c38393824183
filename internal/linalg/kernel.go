package linalg

// Kernel computes the matrix-vector kernels the evolving Markov chain
// needs. It exists so an accelerated backend (a vendor BLAS binding) can
// be swapped in for NaiveKernel without changing any call site — see
// Matrix.SetKernel. No accelerated implementation ships here: the
// specification this package serves treats hardware-accelerated BLAS
// backends as an out-of-scope collaborator, and both implementations
// are required to produce numerically identical results up to rounding,
// so correctness never depends on which one is installed.
type Kernel interface {
	// TransposedMatVec fills out with Mᵀ·vec.
	TransposedMatVec(m *Matrix, vec, out Vector)
}

// NaiveKernel is a plain triple-loop-free (single accumulation pass)
// implementation with no vectorization or parallelism assumptions.
type NaiveKernel struct{}

func (NaiveKernel) TransposedMatVec(m *Matrix, vec, out Vector) {
	out.Fill(0)
	for i := 0; i < m.rows; i++ {
		vi := vec.At(i)
		if vi == 0 {
			continue
		}
		rowStart := i * m.cols
		row := m.data[rowStart : rowStart+m.cols]
		outData := out.Data()
		for j, x := range row {
			outData[j] += x * vi
		}
	}
}
