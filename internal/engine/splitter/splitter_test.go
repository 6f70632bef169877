package splitter

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/sentiprep/internal/model"
)

// labelsOf returns pos positive and neg negative labels, interleaved.
func labelsOf(pos, neg int) []model.Label {
	labels := make([]model.Label, 0, pos+neg)
	for pos > 0 || neg > 0 {
		if pos > 0 {
			labels = append(labels, model.LabelPositive)
			pos--
		}
		if neg > 0 {
			labels = append(labels, model.LabelNegative)
			neg--
		}
	}
	return labels
}

func positiveRatio(labels []model.Label) float64 {
	if len(labels) == 0 {
		return 0
	}
	pos := 0
	for _, l := range labels {
		if l == model.LabelPositive {
			pos++
		}
	}
	return float64(pos) / float64(len(labels))
}

func TestSplitIsCompleteAndDisjoint(t *testing.T) {
	labels := labelsOf(523, 481)
	split, err := Split(DefaultConfig(), labels)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, i := range split.TrainIndices {
		seen[i]++
	}
	for _, i := range split.TestIndices {
		seen[i]++
	}
	require.Len(t, seen, len(labels))
	for i := range labels {
		assert.Equal(t, 1, seen[i], "row %d", i)
	}
	assert.IsIncreasing(t, split.TrainIndices)
	assert.IsIncreasing(t, split.TestIndices)
}

func TestSplitTestSize(t *testing.T) {
	for _, n := range []int{1, 2, 7, 10, 99, 1000, 1003} {
		labels := labelsOf(n/2+n%2, n/2)
		split, err := Split(DefaultConfig(), labels)
		require.NoError(t, err)

		want := float64(n) * 0.2
		assert.LessOrEqual(t, math.Abs(float64(len(split.TestIndices))-want), 1.0, "n=%d", n)
		assert.Equal(t, n, len(split.TrainIndices)+len(split.TestIndices))
	}
}

func TestSplitPreservesClassRatio(t *testing.T) {
	labels := labelsOf(4300, 4200)
	split, err := Split(DefaultConfig(), labels)
	require.NoError(t, err)

	full := positiveRatio(labels)
	assert.InDelta(t, full, positiveRatio(split.TrainLabels), 0.01)
	assert.InDelta(t, full, positiveRatio(split.TestLabels), 0.01)
}

func TestSplitLabelsAlignWithIndices(t *testing.T) {
	labels := labelsOf(30, 12)
	split, err := Split(DefaultConfig(), labels)
	require.NoError(t, err)

	for k, i := range split.TrainIndices {
		assert.Equal(t, labels[i], split.TrainLabels[k])
	}
	for k, i := range split.TestIndices {
		assert.Equal(t, labels[i], split.TestLabels[k])
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	labels := labelsOf(200, 150)

	a, err := Split(DefaultConfig(), labels)
	require.NoError(t, err)
	b, err := Split(DefaultConfig(), labels)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg := DefaultConfig()
	cfg.Seed = 7
	c, err := Split(cfg, labels)
	require.NoError(t, err)
	assert.NotEqual(t, a.TestIndices, c.TestIndices)
}

func TestSplitWithoutStratification(t *testing.T) {
	labels := make([]model.Label, 50) // all unknown
	cfg := DefaultConfig()
	cfg.Stratify = false

	split, err := Split(cfg, labels)
	require.NoError(t, err)
	assert.Len(t, split.TestIndices, 10)
	assert.Len(t, split.TrainIndices, 40)
}

func TestSplitStratifiedRequiresLabels(t *testing.T) {
	labels := labelsOf(5, 5)
	labels[3] = model.LabelUnknown

	_, err := Split(DefaultConfig(), labels)
	var cerr *model.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "stratify", cerr.Option)
}

func TestSplitRejectsBadRatio(t *testing.T) {
	for _, r := range []float64{0, 1, -0.1, 1.5} {
		cfg := DefaultConfig()
		cfg.TestRatio = r
		_, err := Split(cfg, labelsOf(5, 5))
		var cerr *model.ConfigurationError
		assert.True(t, errors.As(err, &cerr), "ratio %g", r)
	}
}

func TestAllocateLargestRemainder(t *testing.T) {
	groups := [][]int{make([]int, 5), make([]int, 5)}
	// 10 * 0.25 = 2.5 → round → 3 rows; both groups have remainder .5,
	// the tie goes to the first group.
	assert.Equal(t, []int{2, 1}, allocate(groups, 3))

	groups = [][]int{make([]int, 1), make([]int, 9)}
	assert.Equal(t, []int{0, 2}, allocate(groups, 2))
	assert.Equal(t, []int{0, 0}, allocate(groups, 0))
}
