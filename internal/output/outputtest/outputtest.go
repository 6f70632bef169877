// Package outputtest provides a small hand-built run result for output tests.
package outputtest

import "github.com/hejijunhao/sentiprep/internal/model"

// Result returns a three-document run over the vocabulary hate, love, movie.
//
//	row 0 "a" love movie  positive  train
//	row 1 "b" hate movie  negative  train
//	row 2 "c" love        positive  test
func Result() *model.Result {
	stats := model.NewStats()
	stats.Input = 5
	stats.Retained = 3
	stats.Dropped[model.DropDuplicate] = 1
	stats.Dropped[model.DropMissingText] = 1
	stats.ClassCounts[model.LabelPositive] = 2
	stats.ClassCounts[model.LabelNegative] = 1
	stats.Warnings = []string{"vocabulary has 3 terms, fewer than max_vocab_size 10000"}

	return &model.Result{
		RunID: "run-1",
		Corpus: []model.CleanRecord{
			{ID: "a", Text: "love movie", Tokens: []string{"love", "movie"}, Label: model.LabelPositive},
			{ID: "b", Text: "hate movie", Tokens: []string{"hate", "movie"}, Label: model.LabelNegative},
			{ID: "c", Text: "love song", Tokens: []string{"love", "song"}, Label: model.LabelPositive},
		},
		Vocabulary: &model.Vocabulary{
			Terms: []string{"hate", "love", "movie"},
			Index: map[string]int{"hate": 0, "love": 1, "movie": 2},
			DF:    []int{1, 2, 2},
			IDF:   []float64{1.6931, 1.2877, 1.2877},
			Score: []float64{1.6931, 2.5754, 2.5754},
		},
		Matrix: &model.Matrix{
			NumRows: 3,
			NumCols: 3,
			RowPtr:  []int{0, 2, 4, 5},
			Cols:    []int{1, 2, 0, 2, 1},
			Values:  []float64{0.6, 0.8, 0.8, 0.6, 1.0},
		},
		Split: model.Split{
			TrainIndices: []int{0, 1},
			TestIndices:  []int{2},
			TrainLabels:  []model.Label{model.LabelPositive, model.LabelNegative},
			TestLabels:   []model.Label{model.LabelPositive},
		},
		Stats: stats,
	}
}
