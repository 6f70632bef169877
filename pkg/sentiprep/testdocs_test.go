package sentiprep_test

import "github.com/hejijunhao/sentiprep/pkg/sentiprep"

// reviewDocs is a tiny balanced corpus. With min_df 2 its vocabulary is
// battery, coffee, hour, morning, phone, "phone battery".
func reviewDocs() []sentiprep.Document {
	return []sentiprep.Document{
		{ID: "p1", Text: "Loving the new phone, battery lasts forever", Label: sentiprep.Positive},
		{ID: "p2", Text: "Great coffee this morning at the corner cafe", Label: sentiprep.Positive},
		{ID: "p3", Text: "The concert last night was amazing!", Label: sentiprep.Positive},
		{ID: "p4", Text: "Finally finished my thesis, so happy", Label: sentiprep.Positive},
		{ID: "p5", Text: "Sunny weekend at the beach with friends", Label: sentiprep.Positive},
		{ID: "n1", Text: "My flight got cancelled again, terrible airline", Label: sentiprep.Negative},
		{ID: "n2", Text: "The phone battery died after an hour", Label: sentiprep.Negative},
		{ID: "n3", Text: "Stuck in traffic for two hours, awful commute", Label: sentiprep.Negative},
		{ID: "n4", Text: "Lost my wallet on the train today", Label: sentiprep.Negative},
		{ID: "n5", Text: "Cold coffee and a broken laptop, worst morning", Label: sentiprep.Negative},
	}
}
