package model

import "sort"

// Matrix is a sparse documents × terms matrix in compressed sparse row form.
// Row i holds Cols[RowPtr[i]:RowPtr[i+1]] (ascending) with the matching Values.
type Matrix struct {
	NumRows int
	NumCols int
	RowPtr  []int
	Cols    []int
	Values  []float64
}

// Row returns the column indices and weights stored for row i.
func (m *Matrix) Row(i int) ([]int, []float64) {
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	return m.Cols[lo:hi], m.Values[lo:hi]
}

// At returns the weight at (i, j), or 0 when the cell is empty.
func (m *Matrix) At(i, j int) float64 {
	cols, vals := m.Row(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return vals[k]
	}
	return 0
}

// NNZ returns the number of stored (non-zero) cells.
func (m *Matrix) NNZ() int {
	return len(m.Values)
}

// SelectRows returns a new matrix made of the given rows, in the given order.
func (m *Matrix) SelectRows(rows []int) *Matrix {
	out := &Matrix{
		NumRows: len(rows),
		NumCols: m.NumCols,
		RowPtr:  make([]int, 1, len(rows)+1),
	}
	for _, r := range rows {
		cols, vals := m.Row(r)
		out.Cols = append(out.Cols, cols...)
		out.Values = append(out.Values, vals...)
		out.RowPtr = append(out.RowPtr, len(out.Cols))
	}
	return out
}

// Vocabulary is the ordered set of terms that form the matrix columns.
type Vocabulary struct {
	Terms []string       // column order (lexicographic)
	Index map[string]int // term → column
	DF    []int          // document frequency per column
	IDF   []float64      // inverse document frequency per column
	Score []float64      // aggregate TF-IDF score used for ranking
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Terms)
}

// Split is a partition of matrix rows into training and test subsets.
type Split struct {
	TrainIndices []int
	TestIndices  []int
	TrainLabels  []Label
	TestLabels   []Label
}
