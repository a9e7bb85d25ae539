// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/confscout/pkg/types"
)

func TestNormalizeAuthor(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		raw  string
		want types.AuthorKey
	}{
		{"plain", "Alice Smith", "alice smith"},
		{"case and spacing", "  ALICE   SMITH ", "alice smith"},
		{"last comma first", "Smith, Alice", "alice smith"},
		{"honorific", "Dr. Alice Smith", "alice smith"},
		{"suffix", "Alice Smith Jr.", "alice smith"},
		{"diacritics", "Łukasz Kaiser", "łukasz kaiser"},
		{"accents fold", "José García", "jose garcia"},
		{"hyphen", "Jean-Pierre Martin", "jean pierre martin"},
		{"initials", "A. J. Smith", "a j smith"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.NormalizeAuthor(tt.raw))
		})
	}
}

func TestNormalizeAuthorIdempotent(t *testing.T) {
	n := NewNormalizer()
	inputs := []string{
		"Smith, Alice", "Dr. José García Jr.", "Jean-Pierre Martin",
		"LeCun, Yann", "A. J.  Smith III", "Müller, Hans",
	}
	for _, raw := range inputs {
		once := n.NormalizeAuthor(raw)
		twice := n.NormalizeAuthor(string(once))
		assert.Equal(t, once, twice, "normalize(normalize(%q)) must equal normalize(%q)", raw, raw)
	}
}

func TestNormalizeInstitution(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		raw  string
		want types.InstitutionKey
	}{
		{"plain", "Stanford University", "stanford university"},
		{"abbreviated token", "Stanford Univ.", "stanford university"},
		{"legal suffix", "DeepMind Ltd.", "deepmind"},
		{"alias", "MIT", "massachusetts institute of technology"},
		{"alias full form", "Massachusetts Institute of Technology", "massachusetts institute of technology"},
		{"passthrough unknown", "Allen Institute for AI", "allen institute for ai"},
		{"punctuation", "Google, Inc.", "google"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.NormalizeInstitution(tt.raw))
		})
	}
}

func TestNormalizeInstitutionIdempotent(t *testing.T) {
	n := NewNormalizer()
	inputs := []string{
		"MIT", "Stanford Univ.", "Google, Inc.", "Carnegie Mellon Univ",
		"ETH Zürich", "Georgia Tech",
	}
	for _, raw := range inputs {
		once := n.NormalizeInstitution(raw)
		twice := n.NormalizeInstitution(string(once))
		assert.Equal(t, once, twice, "input %q", raw)
	}
}

func TestStanfordVariantsMerge(t *testing.T) {
	n := NewNormalizer()
	a := n.NormalizeInstitution("Stanford University")
	b := n.NormalizeInstitution("Stanford Univ.")
	assert.Equal(t, a, b)
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := `institutions:
  "FAIR": "Meta AI"
  "Oxford Univ": "University of Oxford"
expansions:
  "poly": "polytechnic"
honorifics:
  - "rev"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n := NewNormalizer()
	require.NoError(t, n.LoadAliases(path))

	assert.Equal(t, types.InstitutionKey("meta ai"), n.NormalizeInstitution("FAIR"))
	assert.Equal(t, types.InstitutionKey("university of oxford"), n.NormalizeInstitution("Oxford Univ."))
	assert.Equal(t, types.InstitutionKey("hong kong polytechnic university"), n.NormalizeInstitution("Hong Kong Poly Univ"))
	assert.Equal(t, types.AuthorKey("john brown"), n.NormalizeAuthor("Rev. John Brown"))

	// Built-ins survive the merge.
	assert.Equal(t, types.InstitutionKey("massachusetts institute of technology"), n.NormalizeInstitution("MIT"))
}

func TestLoadAliasesMissingFile(t *testing.T) {
	n := NewNormalizer()
	assert.Error(t, n.LoadAliases(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoadAliasesRejectsMultiTokenExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := `expansions:
  "tech": "tech university"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n := NewNormalizer()
	err := n.LoadAliases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single token")
}

func TestLoadAliasesChainedExpansionStaysIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	// "u" chains through the built-in "univ" expansion.
	content := `expansions:
  "u": "univ"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n := NewNormalizer()
	require.NoError(t, n.LoadAliases(path))

	once := n.NormalizeInstitution("Tsinghua U")
	assert.Equal(t, types.InstitutionKey("tsinghua university"), once)
	assert.Equal(t, once, n.NormalizeInstitution(string(once)))
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "Alice Smith", "Alice Smith", 1.0, 1.0},
		{"case insensitive", "alice smith", "Alice Smith", 1.0, 1.0},
		{"abbreviated given name", "Shilin Lu", "S Lu", 0.85, 0.85},
		{"dotted initial", "Shilin Lu", "S. Lu", 0.85, 0.85},
		{"shared surname only", "Alice Smith", "Bob Smith", 0.3, 0.7},
		{"unrelated", "Alice Smith", "Carol Jones", 0.0, 0.3},
		{"empty", "", "Alice Smith", 0.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchScore(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestMatchScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Shilin Lu", "S Lu"},
		{"Alice Smith", "Bob Smith"},
		{"Yann LeCun", "Y. LeCun"},
	}
	for _, p := range pairs {
		assert.InDelta(t, MatchScore(p[0], p[1]), MatchScore(p[1], p[0]), 1e-9)
	}
}
