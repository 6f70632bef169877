package model

import "testing"

func TestParseLabel(t *testing.T) {
	tests := []struct {
		input string
		want  Label
	}{
		{"positive", LabelPositive},
		{"POS", LabelPositive},
		{"4", LabelPositive},
		{"1", LabelPositive},
		{"negative", LabelNegative},
		{" neg ", LabelNegative},
		{"0", LabelNegative},
		{"2", LabelUnknown},
		{"neutral", LabelUnknown},
		{"", LabelUnknown},
	}
	for _, tt := range tests {
		if got := ParseLabel(tt.input); got != tt.want {
			t.Errorf("ParseLabel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func testMatrix() *Matrix {
	// [1 0 2]
	// [0 0 0]
	// [0 3 0]
	return &Matrix{
		NumRows: 3,
		NumCols: 3,
		RowPtr:  []int{0, 2, 2, 3},
		Cols:    []int{0, 2, 1},
		Values:  []float64{1, 2, 3},
	}
}

func TestMatrixAt(t *testing.T) {
	m := testMatrix()
	want := [][]float64{{1, 0, 2}, {0, 0, 0}, {0, 3, 0}}
	for i := range want {
		for j := range want[i] {
			if got := m.At(i, j); got != want[i][j] {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
	if m.NNZ() != 3 {
		t.Fatalf("expected NNZ=3, got %d", m.NNZ())
	}
}

func TestMatrixSelectRows(t *testing.T) {
	m := testMatrix().SelectRows([]int{2, 0})
	if m.NumRows != 2 || m.NumCols != 3 {
		t.Fatalf("expected 2x3, got %dx%d", m.NumRows, m.NumCols)
	}
	if m.At(0, 1) != 3 {
		t.Fatalf("expected row 0 to be old row 2, got %v", m.At(0, 1))
	}
	if m.At(1, 2) != 2 {
		t.Fatalf("expected row 1 to be old row 0, got %v", m.At(1, 2))
	}
}

func TestStatsTotalDropped(t *testing.T) {
	s := NewStats()
	s.Dropped[DropDuplicate] = 2
	s.Dropped[DropEmpty] = 3
	if s.TotalDropped() != 5 {
		t.Fatalf("expected 5, got %d", s.TotalDropped())
	}
}
