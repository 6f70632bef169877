package vectorizer

import "strings"

// Ngrams returns every contiguous n-gram of tokens for n in [minN, maxN],
// shorter n first. Tokens inside an n-gram are joined by a single space.
func Ngrams(tokens []string, minN, maxN int) []string {
	if minN < 1 {
		minN = 1
	}
	var out []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				out = append(out, tokens[i])
				continue
			}
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
