package sampler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/sentiprep/internal/model"
)

func rawRecords(pos, neg, unknown int) []model.Record {
	var out []model.Record
	add := func(n int, l model.Label) {
		for i := 0; i < n; i++ {
			out = append(out, model.Record{ID: fmt.Sprintf("%s-%d", l, i), Text: "t", Label: l})
		}
	}
	add(pos, model.LabelPositive)
	add(neg, model.LabelNegative)
	add(unknown, model.LabelUnknown)
	return out
}

func cleanRecords(pos, neg int) []model.CleanRecord {
	var out []model.CleanRecord
	for i := 0; i < pos || i < neg; i++ {
		if i < pos {
			out = append(out, model.CleanRecord{ID: fmt.Sprintf("p%d", i), Label: model.LabelPositive})
		}
		if i < neg {
			out = append(out, model.CleanRecord{ID: fmt.Sprintf("n%d", i), Label: model.LabelNegative})
		}
	}
	return out
}

func countRaw(records []model.Record) map[model.Label]int {
	counts := map[model.Label]int{}
	for _, r := range records {
		counts[r.Label]++
	}
	return counts
}

func TestBalanceEqualClasses(t *testing.T) {
	sample := Balance(rawRecords(300, 200, 50), 100, 42)

	require.Len(t, sample, 100)
	counts := countRaw(sample)
	assert.Equal(t, 50, counts[model.LabelPositive])
	assert.Equal(t, 50, counts[model.LabelNegative])
	assert.Zero(t, counts[model.LabelUnknown])

	ids := map[string]bool{}
	for _, r := range sample {
		assert.False(t, ids[r.ID], "record %s sampled twice", r.ID)
		ids[r.ID] = true
	}
}

func TestBalanceShortClass(t *testing.T) {
	sample := Balance(rawRecords(80, 10, 0), 100, 42)
	counts := countRaw(sample)
	assert.Equal(t, 50, counts[model.LabelPositive])
	assert.Equal(t, 10, counts[model.LabelNegative])
}

func TestBalanceDisabled(t *testing.T) {
	records := rawRecords(3, 1, 1)
	assert.Equal(t, records, Balance(records, 0, 42))
}

func TestBalanceIsDeterministic(t *testing.T) {
	records := rawRecords(100, 100, 0)
	assert.Equal(t, Balance(records, 40, 42), Balance(records, 40, 42))
	assert.NotEqual(t, Balance(records, 40, 42), Balance(records, 40, 43))
}

func TestRebalance(t *testing.T) {
	corpus := cleanRecords(30, 20)
	out, dropped := Rebalance(corpus, 42)

	assert.Equal(t, 10, dropped)
	counts := ClassCounts(out)
	assert.Equal(t, 20, counts[model.LabelPositive])
	assert.Equal(t, 20, counts[model.LabelNegative])

	// Input order is preserved.
	pos := map[string]int{}
	for i, r := range corpus {
		pos[r.ID] = i
	}
	for i := 1; i < len(out); i++ {
		assert.Less(t, pos[out[i-1].ID], pos[out[i].ID])
	}
}

func TestRebalanceSingleClass(t *testing.T) {
	corpus := cleanRecords(5, 0)
	out, dropped := Rebalance(corpus, 42)
	assert.Equal(t, corpus, out)
	assert.Zero(t, dropped)
}

func TestRebalanceLeavesUnlabeledRecords(t *testing.T) {
	corpus := cleanRecords(50, 50)
	corpus = append(corpus, model.CleanRecord{ID: "u0", Label: model.LabelUnknown})

	out, dropped := Rebalance(corpus, 42)
	assert.Zero(t, dropped)
	assert.Equal(t, corpus, out)

	corpus = append(cleanRecords(30, 20), model.CleanRecord{ID: "u0", Label: model.LabelUnknown})
	out, dropped = Rebalance(corpus, 42)
	assert.Equal(t, 10, dropped)
	counts := ClassCounts(out)
	assert.Equal(t, 20, counts[model.LabelPositive])
	assert.Equal(t, 20, counts[model.LabelNegative])
	assert.Equal(t, 1, counts[model.LabelUnknown])
}

func TestCheckBalance(t *testing.T) {
	assert.Empty(t, CheckBalance(map[model.Label]int{model.LabelPositive: 52, model.LabelNegative: 48}, 0.05))
	assert.Empty(t, CheckBalance(map[model.Label]int{}, 0.05))

	msg := CheckBalance(map[model.Label]int{model.LabelPositive: 70, model.LabelNegative: 30}, 0.05)
	assert.Contains(t, msg, "70 positive / 30 negative")
}
