package cleaner

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hejijunhao/sentiprep/internal/engine/dedup"
	"github.com/hejijunhao/sentiprep/internal/engine/lexicon"
	"github.com/hejijunhao/sentiprep/internal/model"
)

// DefaultMinTokenLength drops one- and two-letter leftovers ("t" from "can't").
const DefaultMinTokenLength = 3

// Lemmatizer maps a lowercase token to its dictionary base form.
// Implementations must be idempotent: Lemma(Lemma(x)) == Lemma(x).
type Lemmatizer interface {
	Lemma(token string) string
}

// StopwordList is an exact-match stopword membership test.
type StopwordList interface {
	IsStopword(token string) bool
}

// Config controls token filtering.
type Config struct {
	MinTokenLength int // tokens with fewer runes are dropped (0 keeps all)
}

// Cleaner normalizes raw post text into lowercase alphanumeric tokens.
type Cleaner struct {
	cfg        Config
	lemmatizer Lemmatizer
	stopwords  StopwordList
}

// New creates a Cleaner with explicit lemmatizer and stopword capabilities.
func New(cfg Config, lem Lemmatizer, stop StopwordList) *Cleaner {
	return &Cleaner{cfg: cfg, lemmatizer: lem, stopwords: stop}
}

// NewFromLexicon creates a Cleaner that uses lex for both lemmas and stopwords.
func NewFromLexicon(cfg Config, lex *lexicon.Lexicon) *Cleaner {
	return New(cfg, lex, lex)
}

// Lemmatize maps each token to its base form.
func (c *Cleaner) Lemmatize(tokens []string) []string {
	if c.lemmatizer == nil {
		return tokens
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = c.lemmatizer.Lemma(tok)
	}
	return out
}

// RemoveStopwords drops stopwords and tokens shorter than MinTokenLength.
func (c *Cleaner) RemoveStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if c.stopwords != nil && c.stopwords.IsStopword(tok) {
			continue
		}
		if utf8.RuneCountInString(tok) < c.cfg.MinTokenLength {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Tokens runs the full cleaning sequence and returns the surviving tokens.
func (c *Cleaner) Tokens(text string) []string {
	text = StripURLs(text)
	text = StripMentions(text)
	text = StripSpecial(text)
	text = Lowercase(text)
	return c.RemoveStopwords(c.Lemmatize(Tokenize(text)))
}

// Clean returns the normalized form of text: tokens joined by single spaces.
// The result is empty when nothing survives.
func (c *Cleaner) Clean(text string) string {
	return strings.Join(c.Tokens(text), " ")
}

// CleanCorpus cleans every record, dropping those with missing text, those
// that clean to nothing, and exact duplicates of an earlier survivor.
// Drops are counted in the returned stats, never reported as errors.
func (c *Cleaner) CleanCorpus(records []model.Record) ([]model.CleanRecord, model.Stats) {
	stats := model.NewStats()
	stats.Input = len(records)

	seen := dedup.New()
	out := make([]model.CleanRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Text) == "" {
			stats.Dropped[model.DropMissingText]++
			continue
		}
		tokens := c.Tokens(r.Text)
		if len(tokens) == 0 {
			stats.Dropped[model.DropEmpty]++
			slog.Debug("record empty after cleaning", "id", r.ID)
			continue
		}
		text := strings.Join(tokens, " ")
		if !seen.Keep(text) {
			stats.Dropped[model.DropDuplicate]++
			slog.Debug("duplicate record", "id", r.ID, "text", text)
			continue
		}
		out = append(out, model.CleanRecord{
			ID:     r.ID,
			Text:   text,
			Tokens: tokens,
			Label:  r.Label,
		})
		stats.ClassCounts[r.Label]++
	}
	stats.Retained = len(out)
	return out, stats
}
