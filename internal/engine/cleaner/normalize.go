package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern     = regexp.MustCompile(`(?i)(?:https?://|ftp://|www\.)\S+`)
	mentionPattern = regexp.MustCompile(`[@#][\p{L}\p{N}_]+`)
)

// StripURLs removes every URL-like run of non-space characters.
func StripURLs(text string) string {
	return urlPattern.ReplaceAllString(text, " ")
}

// StripMentions removes @mentions and #hashtags, including the name or tag.
func StripMentions(text string) string {
	return mentionPattern.ReplaceAllString(text, " ")
}

// StripSpecial folds accents and replaces every rune that is not a letter
// or digit (emoji, punctuation, symbols, control characters) with a space.
// Apostrophes between two alphanumerics are deleted so contractions stay
// one token ("don't" → "dont").
func StripSpecial(text string) string {
	rs := []rune(foldAccents(text))
	var b strings.Builder
	b.Grow(len(rs))
	for i, r := range rs {
		switch {
		case isAlnum(r):
			b.WriteRune(r)
		case isApostrophe(r) && i > 0 && i+1 < len(rs) && isAlnum(rs[i-1]) && isAlnum(rs[i+1]):
			// joined
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Lowercase applies Unicode lower-casing. Combining marks introduced by
// case mapping (e.g. U+0130) are folded away.
func Lowercase(text string) string {
	return foldAccents(cases.Lower(language.Und).String(text))
}

// Tokenize splits on runs of whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// foldAccents removes combining diacritical marks after NFKD decomposition
// and recomposes the remainder.
func foldAccents(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}
