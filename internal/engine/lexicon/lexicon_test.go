package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "en", lex.Language)
	assert.NotEmpty(t, lex.Version)
	assert.True(t, lex.IsStopword("i"))
	assert.True(t, lex.IsStopword("this"))
	assert.False(t, lex.IsStopword("love"))
	assert.Equal(t, "love", lex.Lemma("loved"))
	assert.Equal(t, "be", lex.Lemma("were"))
	assert.Equal(t, "brand", lex.Lemma("brand"))
}

func TestDefaultLemmasAreFixedPoints(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	for form, base := range lex.lemmas {
		assert.Equal(t, base, lex.Lemma(base), "lemma of %q is not a fixed point", form)
	}
}

func TestParseResolvesChains(t *testing.T) {
	lex, err := Parse([]byte(`
version: "t1"
lemmas:
  ran: run
  run: runs
  runs: runs
`))
	require.NoError(t, err)

	assert.Equal(t, "runs", lex.Lemma("ran"))
	assert.Equal(t, "runs", lex.Lemma("run"))
	assert.Equal(t, "runs", lex.Lemma("runs"))
	assert.Equal(t, 2, lex.NumLemmas())
}

func TestParseLowercasesEntries(t *testing.T) {
	lex, err := Parse([]byte(`
version: "t1"
stopwords: [The, " AND "]
lemmas:
  Loved: LOVE
`))
	require.NoError(t, err)

	assert.True(t, lex.IsStopword("the"))
	assert.True(t, lex.IsStopword("and"))
	assert.Equal(t, "love", lex.Lemma("loved"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing version", "stopwords: [a]"},
		{"cycle", "version: x\nlemmas:\n  a: b\n  b: a\n"},
		{"empty base", "version: x\nlemmas:\n  a: ''\n"},
		{"multiword base", "version: x\nlemmas:\n  gonna: going to\n"},
		{"hyphenated base", "version: x\nlemmas:\n  email: e-mail\n"},
		{"apostrophe base", "version: x\nlemmas:\n  dont: don't\n"},
		{"accented base", "version: x\nlemmas:\n  cafe: café\n"},
		{"not yaml", "version: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: custom-1\nlanguage: xx\nstopwords: [foo]\n"), 0o644))

	lex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-1", lex.Version)
	assert.True(t, lex.IsStopword("foo"))
	assert.False(t, lex.IsStopword("the"))
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	lex, err := Load("")
	require.NoError(t, err)
	assert.True(t, lex.IsStopword("the"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
