package vectorizer

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/hejijunhao/sentiprep/internal/model"
)

// Feature is a vocabulary term with its mean weight across matrix rows.
type Feature struct {
	Term      string
	MeanTFIDF float64
	DF        int
}

// TopFeatures returns the n terms with the highest mean TF-IDF weight,
// ties broken by term. n <= 0 returns every term.
func TopFeatures(vocab *model.Vocabulary, mat *model.Matrix, n int) []Feature {
	if vocab.Len() == 0 || mat.NumRows == 0 {
		return nil
	}
	sums := make([]float64, vocab.Len())
	for i, col := range mat.Cols {
		sums[col] += mat.Values[i]
	}
	floats.Scale(1/float64(mat.NumRows), sums)

	features := make([]Feature, vocab.Len())
	for i, term := range vocab.Terms {
		features[i] = Feature{Term: term, MeanTFIDF: sums[i], DF: vocab.DF[i]}
	}
	sort.Slice(features, func(i, j int) bool {
		if features[i].MeanTFIDF != features[j].MeanTFIDF {
			return features[i].MeanTFIDF > features[j].MeanTFIDF
		}
		return features[i].Term < features[j].Term
	})
	if n > 0 && n < len(features) {
		features = features[:n]
	}
	return features
}
