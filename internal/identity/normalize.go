// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity canonicalizes author names and institution strings so the
// same real-world entity maps to one key regardless of surface formatting.
// Normalization is deterministic and idempotent; merging is best-effort and
// the canonicalization tables are extensible through a YAML file rather than
// code changes. The same matching machinery drives the contact resolver's
// profile disambiguation.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/confscout/pkg/types"
)

// Normalizer holds the canonicalization tables. Construct with
// NewNormalizer and optionally extend with LoadAliases.
type Normalizer struct {
	honorifics   map[string]struct{}
	nameSuffixes map[string]struct{}
	legalSuffix  map[string]struct{}
	expansions   map[string]string
	instAliases  map[string]string
}

// NewNormalizer returns a normalizer with the built-in tables.
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		honorifics:   toSet(defaultHonorifics),
		nameSuffixes: toSet(defaultNameSuffixes),
		legalSuffix:  toSet(defaultLegalSuffixes),
		expansions:   make(map[string]string, len(defaultExpansions)),
		instAliases:  make(map[string]string, len(defaultInstitutionAliases)),
	}
	for k, v := range defaultExpansions {
		n.expansions[k] = v
	}
	// Alias values pass through institution normalization once at load so
	// expansion stays a fixed point.
	for k, v := range defaultInstitutionAliases {
		n.addInstitutionAlias(k, v)
	}
	return n
}

// NormalizeAuthor maps a raw author name to its canonical key. The function
// is deterministic and idempotent: case and diacritics are folded,
// punctuation and honorifics are stripped, whitespace collapses, and a
// single "Last, First" comma triggers reordering to "first last".
func (n *Normalizer) NormalizeAuthor(raw string) types.AuthorKey {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// "Last, First" → "First Last" before punctuation is dropped. Two or
	// more commas mean the comma is not an ordering marker.
	if strings.Count(s, ",") == 1 {
		parts := strings.SplitN(s, ",", 2)
		s = strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
	}

	tokens := strings.Fields(foldText(s))
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := n.honorifics[tok]; ok {
			continue
		}
		if _, ok := n.nameSuffixes[tok]; ok {
			continue
		}
		kept = append(kept, tok)
	}
	return types.AuthorKey(strings.Join(kept, " "))
}

// NormalizeInstitution maps a raw affiliation string to its canonical key.
// Ambiguous or unknown strings pass through as normalized literal text; two
// surface strings for one real entity may fail to merge, which is a
// documented limitation rather than an error.
func (n *Normalizer) NormalizeInstitution(raw string) types.InstitutionKey {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	tokens := strings.Fields(foldText(s))
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := n.legalSuffix[tok]; ok {
			continue
		}
		if exp, ok := n.expansions[tok]; ok {
			tok = exp
		}
		kept = append(kept, tok)
	}
	key := strings.Join(kept, " ")

	if canonical, ok := n.instAliases[key]; ok {
		return types.InstitutionKey(canonical)
	}
	return types.InstitutionKey(key)
}

func (n *Normalizer) addInstitutionAlias(alias, canonical string) {
	key := n.literalInstitution(alias)
	value := n.literalInstitution(canonical)
	if key != "" && value != "" && key != value {
		n.instAliases[key] = value
	}
}

// literalInstitution normalizes without the alias table, used when loading
// the table itself.
func (n *Normalizer) literalInstitution(raw string) string {
	tokens := strings.Fields(foldText(raw))
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := n.legalSuffix[tok]; ok {
			continue
		}
		if exp, ok := n.expansions[tok]; ok {
			tok = exp
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// foldText lowercases, strips diacritics, maps punctuation to spaces, and
// collapses whitespace.
func foldText(s string) string {
	s = stripDiacritics(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stripDiacritics(s string) string {
	// The chained transformer is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
