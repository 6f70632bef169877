package model

import "strings"

// Label is the sentiment class of a record.
type Label int8

const (
	LabelUnknown  Label = iota // no usable label
	LabelNegative              // Sentiment140 polarity 0
	LabelPositive              // Sentiment140 polarity 4
)

// Labels lists the binary classes in their canonical order.
var Labels = []Label{LabelNegative, LabelPositive}

func (l Label) String() string {
	switch l {
	case LabelNegative:
		return "negative"
	case LabelPositive:
		return "positive"
	default:
		return "unknown"
	}
}

// ParseLabel maps common spellings ("positive", "pos", "4", "1",
// "negative", "neg", "0") to a Label. Anything else is LabelUnknown.
func ParseLabel(s string) Label {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos", "4", "1":
		return LabelPositive
	case "negative", "neg", "0":
		return LabelNegative
	default:
		return LabelUnknown
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(b []byte) error {
	*l = ParseLabel(string(b))
	return nil
}

// Record is one raw social-media post as produced by a source.
type Record struct {
	ID     string // source identifier (tweet id, line number)
	Text   string // original post text
	Label  Label
	Source string // provider name (e.g. "sentiment140")
}

// CleanRecord is a record that survived cleaning.
type CleanRecord struct {
	ID     string
	Text   string   // normalized text, tokens joined by single spaces
	Tokens []string // Text split on spaces
	Label  Label
}
