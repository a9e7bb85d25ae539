// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import "strings"

// nameFeatures decomposes a name for fuzzy comparison: full words, single
// initials, and part count. Hyphenated parts split; dotted initials like
// "Q." reduce to their letter.
type nameFeatures struct {
	parts     []string
	fullWords []string
	initials  []string
	singles   []string
}

func parseNameFeatures(name string) *nameFeatures {
	cleaned := foldNameForMatch(name)
	if cleaned == "" {
		return nil
	}

	var parts []string
	for _, p := range strings.Fields(cleaned) {
		switch {
		case strings.Contains(p, ".") && len(p) <= 3:
			if c := strings.ReplaceAll(p, ".", ""); c != "" {
				parts = append(parts, c)
			}
		case strings.Contains(p, "-"):
			for _, sub := range strings.Split(p, "-") {
				if sub != "" {
					parts = append(parts, sub)
				}
			}
		default:
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}

	f := &nameFeatures{}
	for _, p := range parts {
		lower := strings.ToLower(p)
		f.parts = append(f.parts, lower)
		f.initials = append(f.initials, strings.ToUpper(p[:1]))
		if len(p) > 1 {
			f.fullWords = append(f.fullWords, lower)
		} else {
			f.singles = append(f.singles, strings.ToUpper(p))
		}
	}
	return f
}

// foldNameForMatch keeps letters, digits, dots, and hyphens; everything else
// becomes a space. Dots and hyphens carry abbreviation structure, so this is
// looser than the key normalization in foldText.
func foldNameForMatch(name string) string {
	var b strings.Builder
	for _, r := range stripDiacritics(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// MatchScore returns a 0–1 similarity between two person names, tolerant of
// initials and abbreviated given names ("S Lu" vs "Shilin Lu"). Used to
// disambiguate candidate profiles during contact resolution.
func MatchScore(a, b string) float64 {
	fa := parseNameFeatures(a)
	fb := parseNameFeatures(b)
	if fa == nil || fb == nil {
		return 0
	}

	if sameSet(fa.parts, fb.parts) {
		return 1.0
	}
	if abbreviates(fa, fb) || abbreviates(fb, fa) {
		return 0.85
	}

	var score float64

	if len(fa.fullWords) > 0 && len(fb.fullWords) > 0 {
		overlap := intersectCount(fa.fullWords, fb.fullWords)
		total := unionCount(fa.fullWords, fb.fullWords)
		if total > 0 {
			score += 40 * float64(overlap) / float64(total)
		}
	}

	if len(fa.initials) > 0 && len(fb.initials) > 0 {
		overlap := intersectCount(fa.initials, fb.initials)
		total := len(fa.initials)
		if len(fb.initials) > total {
			total = len(fb.initials)
		}
		score += 30 * float64(overlap) / float64(total)
	}

	switch diff := len(fa.parts) - len(fb.parts); {
	case diff == 0:
		score += 10
	case diff == 1 || diff == -1:
		score += 5
	}

	return score / 100
}

// abbreviates reports whether abbrev looks like an initialed form of full:
// its single letters appear in order among full's initials and the two share
// at least one full word (typically the family name).
func abbreviates(full, abbrev *nameFeatures) bool {
	if len(abbrev.singles) == 0 {
		return false
	}
	fullInitials := strings.Join(full.initials, "")
	abbrevChars := strings.Join(abbrev.singles, "")
	if !strings.Contains(fullInitials, abbrevChars) {
		return false
	}
	return intersectCount(full.fullWords, abbrev.fullWords) > 0
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}

func intersectCount(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	count := 0
	for _, s := range b {
		if _, ok := set[s]; ok {
			count++
		}
	}
	return count
}

func unionCount(a, b []string) int {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	return len(set)
}
