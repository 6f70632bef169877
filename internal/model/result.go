package model

// DropReason names why a record left the corpus.
type DropReason string

const (
	DropMissingText DropReason = "missing_text"
	DropEmpty       DropReason = "empty_after_cleaning"
	DropDuplicate   DropReason = "duplicate"
	DropUnlabeled   DropReason = "unsupported_label"
	DropRebalanced  DropReason = "rebalanced"
	DropNotSampled  DropReason = "not_sampled"
	DropMalformed   DropReason = "malformed"
)

// Stats aggregates per-record outcomes of a run.
type Stats struct {
	Input       int                // records handed to the engine
	Retained    int                // records in the final corpus
	Dropped     map[DropReason]int // per-reason drop counts
	ClassCounts map[Label]int      // label counts of the final corpus
	Warnings    []string           // non-fatal conditions (small vocabulary, imbalance)
}

// NewStats returns Stats with its maps initialised.
func NewStats() Stats {
	return Stats{
		Dropped:     make(map[DropReason]int),
		ClassCounts: make(map[Label]int),
	}
}

// TotalDropped sums all drop counters.
func (s Stats) TotalDropped() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// Result is everything a run produces.
type Result struct {
	RunID      string
	Corpus     []CleanRecord
	Vocabulary *Vocabulary
	Matrix     *Matrix
	Split      Split
	Stats      Stats
}
