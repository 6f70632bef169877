package sentiprep

import (
	"github.com/hejijunhao/sentiprep/internal/engine/cleaner"
	"github.com/hejijunhao/sentiprep/internal/engine/vectorizer"
	"github.com/hejijunhao/sentiprep/internal/model"
)

// Label is a document's sentiment.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Unknown  Label = ""
)

// Document is one input post.
type Document struct {
	ID    string
	Text  string
	Label Label
}

// Vector is a sparse feature row: weights at ascending column indices.
type Vector struct {
	Indices []int
	Values  []float64
}

// Matrix is a sparse feature matrix in CSR form: the cells of row i are
// Cols[RowPtr[i]:RowPtr[i+1]] with the matching Values.
type Matrix struct {
	NumRows int
	NumCols int
	RowPtr  []int
	Cols    []int
	Values  []float64
}

// Row returns row i as a Vector.
func (m Matrix) Row(i int) Vector {
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	return Vector{
		Indices: append([]int(nil), m.Cols[lo:hi]...),
		Values:  append([]float64(nil), m.Values[lo:hi]...),
	}
}

// Row is a retained document with its feature vector.
type Row struct {
	ID       string
	Text     string // cleaned text
	Label    Label
	Features Vector
}

// TermWeight is a vocabulary term with its mean TF-IDF weight.
type TermWeight struct {
	Term   string
	Weight float64
	DF     int
}

// Stats summarises what happened to the input documents.
type Stats struct {
	Input    int
	Retained int
	Dropped  map[string]int
	Warnings []string
}

// Dataset is the output of Prepare.
type Dataset struct {
	RunID        string
	Terms        []string // column order
	Rows         []Row
	TrainIndices []int
	TestIndices  []int
	Stats        Stats

	res     *model.Result
	model   *vectorizer.Model
	cleaner *cleaner.Cleaner
}

// Train returns the training rows.
func (d *Dataset) Train() []Row { return d.pick(d.TrainIndices) }

// Test returns the held-out rows.
func (d *Dataset) Test() []Row { return d.pick(d.TestIndices) }

// TrainMatrix returns the training rows as one CSR matrix, in Train order.
func (d *Dataset) TrainMatrix() Matrix { return d.matrix(d.TrainIndices) }

// TestMatrix returns the held-out rows as one CSR matrix, in Test order.
func (d *Dataset) TestMatrix() Matrix { return d.matrix(d.TestIndices) }

func (d *Dataset) matrix(idx []int) Matrix {
	m := d.res.Matrix.SelectRows(idx)
	return Matrix{NumRows: m.NumRows, NumCols: m.NumCols, RowPtr: m.RowPtr, Cols: m.Cols, Values: m.Values}
}

func (d *Dataset) pick(idx []int) []Row {
	rows := make([]Row, len(idx))
	for i, r := range idx {
		rows[i] = d.Rows[r]
	}
	return rows
}

// TopTerms returns the n terms with the highest mean weight. n <= 0
// returns all.
func (d *Dataset) TopTerms(n int) []TermWeight {
	features := vectorizer.TopFeatures(d.res.Vocabulary, d.res.Matrix, n)
	out := make([]TermWeight, len(features))
	for i, f := range features {
		out[i] = TermWeight{Term: f.Term, Weight: f.MeanTFIDF, DF: f.DF}
	}
	return out
}

// Transform cleans and vectorizes unseen texts against the fitted
// vocabulary. Terms outside the vocabulary are ignored; a text with no
// known terms yields an empty vector.
func (d *Dataset) Transform(texts []string) []Vector {
	docs := make([][]string, len(texts))
	for i, t := range texts {
		docs[i] = d.cleaner.Tokens(t)
	}
	mat := d.model.Transform(docs)
	out := make([]Vector, mat.NumRows)
	for i := range out {
		out[i] = vectorAt(mat, i)
	}
	return out
}

func vectorAt(mat *model.Matrix, i int) Vector {
	cols, vals := mat.Row(i)
	return Vector{
		Indices: append([]int(nil), cols...),
		Values:  append([]float64(nil), vals...),
	}
}

func toLabel(l model.Label) Label {
	switch l {
	case model.LabelPositive:
		return Positive
	case model.LabelNegative:
		return Negative
	default:
		return Unknown
	}
}

func fromLabel(l Label) model.Label {
	return model.ParseLabel(string(l))
}
