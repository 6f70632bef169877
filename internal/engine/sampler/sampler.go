package sampler

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hejijunhao/sentiprep/internal/model"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
}

// Balance draws an equal-sized, label-balanced sample before cleaning.
// Each binary class contributes min(size/2, available) records drawn without
// replacement; the combined sample is shuffled. Unlabeled records are never
// sampled. size <= 0 returns records unchanged.
func Balance(records []model.Record, size int, seed uint64) []model.Record {
	if size <= 0 {
		return records
	}
	rng := newRand(seed)
	half := size / 2

	var out []model.Record
	for _, label := range model.Labels {
		var pool []model.Record
		for _, r := range records {
			if r.Label == label {
				pool = append(pool, r)
			}
		}
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		out = append(out, pool[:min(half, len(pool))]...)
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Rebalance downsamples each binary class of a cleaned corpus to the size
// of the smaller one. Unlabeled records are left in place. Kept records stay
// in their input order. Returns the kept records and the number dropped.
func Rebalance(corpus []model.CleanRecord, seed uint64) ([]model.CleanRecord, int) {
	counts := ClassCounts(corpus)
	target := math.MaxInt
	for _, label := range model.Labels {
		if counts[label] == 0 {
			return corpus, 0
		}
		target = min(target, counts[label])
	}

	rng := newRand(seed)
	keep := make([]bool, len(corpus))
	for i, r := range corpus {
		if r.Label == model.LabelUnknown {
			keep[i] = true
		}
	}
	for _, label := range model.Labels {
		var rows []int
		for i, r := range corpus {
			if r.Label == label {
				rows = append(rows, i)
			}
		}
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		for _, i := range rows[:target] {
			keep[i] = true
		}
	}

	out := make([]model.CleanRecord, 0, len(corpus))
	for i, r := range corpus {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out, len(corpus) - len(out)
}

// ClassCounts tallies labels in a corpus.
func ClassCounts(corpus []model.CleanRecord) map[model.Label]int {
	counts := make(map[model.Label]int)
	for _, r := range corpus {
		counts[r.Label]++
	}
	return counts
}

// CheckBalance returns a warning when the positive share deviates from one
// half by more than tolerance; it returns "" otherwise.
func CheckBalance(counts map[model.Label]int, tolerance float64) string {
	pos, neg := counts[model.LabelPositive], counts[model.LabelNegative]
	if pos+neg == 0 {
		return ""
	}
	share := float64(pos) / float64(pos+neg)
	if math.Abs(share-0.5) <= tolerance {
		return ""
	}
	return fmt.Sprintf("class imbalance after cleaning: %d positive / %d negative (%.1f%% positive)", pos, neg, share*100)
}
