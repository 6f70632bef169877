package output_test

import (
	"testing"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
	"github.com/hejijunhao/sentiprep/internal/output/outputtest"
)

func TestSummarize(t *testing.T) {
	s := output.Summarize(outputtest.Result(), 2)

	if s.RunID != "run-1" || s.Input != 5 || s.Retained != 3 {
		t.Fatalf("unexpected header: %+v", s)
	}
	if s.Dropped["duplicate"] != 1 || s.Dropped["missing_text"] != 1 {
		t.Errorf("Dropped = %v", s.Dropped)
	}
	if s.ClassCounts["positive"] != 2 || s.ClassCounts["negative"] != 1 {
		t.Errorf("ClassCounts = %v", s.ClassCounts)
	}
	if s.VocabularySize != 3 || s.NonZero != 5 || s.Train != 2 || s.Test != 1 {
		t.Errorf("sizes = %+v", s)
	}
	if len(s.TopTerms) != 2 || s.TopTerms[0].Term != "love" || s.TopTerms[1].Term != "movie" {
		t.Fatalf("TopTerms = %+v", s.TopTerms)
	}
	if s.TopTerms[0].DF != 2 {
		t.Errorf("love df = %d, want 2", s.TopTerms[0].DF)
	}
}

func TestSummarizeWithoutTopTerms(t *testing.T) {
	s := output.Summarize(outputtest.Result(), 0)
	if s.TopTerms != nil {
		t.Fatalf("expected no top terms, got %v", s.TopTerms)
	}
}

func TestRowAt(t *testing.T) {
	res := outputtest.Result()
	splits := output.SplitNames(res)
	if splits[0] != output.SplitTrain || splits[2] != output.SplitTest {
		t.Fatalf("splits = %v", splits)
	}

	row := output.RowAt(res, splits, 1)
	if row.ID != "b" || row.Split != "train" || row.Label != model.LabelNegative {
		t.Fatalf("row = %+v", row)
	}
	if len(row.Features) != 2 || row.Features["hate"] != 0.8 || row.Features["movie"] != 0.6 {
		t.Fatalf("features = %v", row.Features)
	}
}

func TestSortedDropReasons(t *testing.T) {
	got := output.SortedDropReasons(map[string]int{"missing_text": 1, "duplicate": 2, "empty_after_cleaning": 0})
	want := []string{"duplicate", "empty_after_cleaning", "missing_text"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
