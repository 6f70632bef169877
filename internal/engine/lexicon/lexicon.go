package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed english.yaml
var englishYAML []byte

// maxLemmaChain bounds lemma chain resolution (a → b → c ...).
const maxLemmaChain = 16

// Lexicon is a versioned stopword list and lemma dictionary.
// It is immutable after Load.
type Lexicon struct {
	Version  string
	Language string

	stopwords map[string]struct{}
	lemmas    map[string]string
}

// document mirrors the on-disk YAML layout.
type document struct {
	Version   string            `yaml:"version"`
	Language  string            `yaml:"language"`
	Stopwords []string          `yaml:"stopwords"`
	Lemmas    map[string]string `yaml:"lemmas"`
}

// Default returns the embedded English lexicon.
func Default() (*Lexicon, error) {
	lex, err := Parse(englishYAML)
	if err != nil {
		return nil, fmt.Errorf("lexicon: embedded english: %w", err)
	}
	return lex, nil
}

// Load reads a lexicon YAML file. An empty path returns Default().
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %s: %w", path, err)
	}
	return lex, nil
}

// Parse decodes a lexicon document. Entries are lowercased; lemma chains
// are resolved so that every base form maps to itself.
func Parse(data []byte) (*Lexicon, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("missing version")
	}

	lex := &Lexicon{
		Version:   doc.Version,
		Language:  doc.Language,
		stopwords: make(map[string]struct{}, len(doc.Stopwords)),
		lemmas:    make(map[string]string, len(doc.Lemmas)),
	}
	for _, w := range doc.Stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lex.stopwords[w] = struct{}{}
		}
	}

	raw := make(map[string]string, len(doc.Lemmas))
	for form, base := range doc.Lemmas {
		form = strings.ToLower(strings.TrimSpace(form))
		base = strings.ToLower(strings.TrimSpace(base))
		if form == "" || base == "" {
			return nil, fmt.Errorf("empty lemma entry %q: %q", form, base)
		}
		if strings.IndexFunc(base, notAlphanumeric) >= 0 || !norm.NFKD.IsNormalString(base) {
			return nil, fmt.Errorf("lemma %q for %q must be unaccented letters and digits only", base, form)
		}
		raw[form] = base
	}
	for form := range raw {
		base, err := resolve(raw, form)
		if err != nil {
			return nil, err
		}
		if base != form {
			lex.lemmas[form] = base
		}
	}
	return lex, nil
}

func notAlphanumeric(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// resolve follows form → base → base' until a fixed point.
func resolve(raw map[string]string, form string) (string, error) {
	cur := form
	for i := 0; i < maxLemmaChain; i++ {
		next, ok := raw[cur]
		if !ok || next == cur {
			return cur, nil
		}
		cur = next
	}
	return "", fmt.Errorf("lemma cycle starting at %q", form)
}

// IsStopword reports whether the (lowercase) token is a stopword.
func (l *Lexicon) IsStopword(token string) bool {
	_, ok := l.stopwords[token]
	return ok
}

// Lemma returns the dictionary base form of token, or token itself.
// Lemma(Lemma(x)) == Lemma(x) for every x.
func (l *Lexicon) Lemma(token string) string {
	if base, ok := l.lemmas[token]; ok {
		return base
	}
	return token
}

// NumStopwords returns the size of the stopword list.
func (l *Lexicon) NumStopwords() int { return len(l.stopwords) }

// NumLemmas returns the number of non-identity lemma entries.
func (l *Lexicon) NumLemmas() int { return len(l.lemmas) }
