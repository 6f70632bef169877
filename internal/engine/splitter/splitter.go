package splitter

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/hejijunhao/sentiprep/internal/model"
)

// Config controls how rows are partitioned.
type Config struct {
	TestRatio float64 // share of rows assigned to the test subset
	Seed      uint64  // shuffling seed
	Stratify  bool    // preserve per-label proportions
}

// DefaultConfig returns an 80/20 stratified split with seed 42.
func DefaultConfig() Config {
	return Config{TestRatio: 0.2, Seed: 42, Stratify: true}
}

// Validate checks the ratio bounds.
func (c Config) Validate() error {
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return &model.ConfigurationError{Option: "test_split_ratio", Reason: fmt.Sprintf("must be in (0, 1), got %g", c.TestRatio)}
	}
	return nil
}

// CheckLabels fails when a stratified split is requested but some row has
// no label.
func (c Config) CheckLabels(labels []model.Label) error {
	if !c.Stratify {
		return nil
	}
	for i, l := range labels {
		if l == model.LabelUnknown {
			return &model.ConfigurationError{
				Option: "stratify",
				Reason: fmt.Sprintf("stratified split needs labels, row %d has none", i),
			}
		}
	}
	return nil
}

// Split partitions row indices 0..len(labels)-1 into train and test.
// The test subset has round(N*TestRatio) rows. With Stratify, each label
// receives a test quota proportional to its size (largest remainder, ties
// in label order). Returned indices are ascending.
func Split(cfg Config, labels []model.Label) (model.Split, error) {
	if err := cfg.Validate(); err != nil {
		return model.Split{}, err
	}
	if err := cfg.CheckLabels(labels); err != nil {
		return model.Split{}, err
	}

	n := len(labels)
	testSize := int(math.Round(float64(n) * cfg.TestRatio))
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	var groups [][]int
	if cfg.Stratify {
		groups = groupByLabel(labels)
	} else {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		groups = [][]int{all}
	}

	quotas := allocate(groups, testSize)
	inTest := make([]bool, n)
	for g, idx := range groups {
		shuffled := append([]int(nil), idx...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, row := range shuffled[:quotas[g]] {
			inTest[row] = true
		}
	}

	split := model.Split{
		TrainIndices: make([]int, 0, n-testSize),
		TestIndices:  make([]int, 0, testSize),
	}
	for row, test := range inTest {
		if test {
			split.TestIndices = append(split.TestIndices, row)
			split.TestLabels = append(split.TestLabels, labels[row])
		} else {
			split.TrainIndices = append(split.TrainIndices, row)
			split.TrainLabels = append(split.TrainLabels, labels[row])
		}
	}
	return split, nil
}

// groupByLabel returns row indices per label, labels in ascending order.
func groupByLabel(labels []model.Label) [][]int {
	byLabel := make(map[model.Label][]int)
	for i, l := range labels {
		byLabel[l] = append(byLabel[l], i)
	}
	keys := make([]model.Label, 0, len(byLabel))
	for l := range byLabel {
		keys = append(keys, l)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	groups := make([][]int, len(keys))
	for i, l := range keys {
		groups[i] = byLabel[l]
	}
	return groups
}

// allocate distributes total across groups proportionally to their sizes
// using the largest remainder method.
func allocate(groups [][]int, total int) []int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	quotas := make([]int, len(groups))
	if n == 0 || total == 0 {
		return quotas
	}

	type remainder struct {
		group int
		frac  float64
	}
	rems := make([]remainder, len(groups))
	assigned := 0
	for i, g := range groups {
		exact := float64(total) * float64(len(g)) / float64(n)
		quotas[i] = int(math.Floor(exact))
		assigned += quotas[i]
		rems[i] = remainder{group: i, frac: exact - float64(quotas[i])}
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for k := 0; assigned < total; k++ {
		g := rems[k%len(rems)].group
		if quotas[g] < len(groups[g]) {
			quotas[g]++
			assigned++
		}
	}
	return quotas
}
