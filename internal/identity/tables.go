// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Built-in canonicalization tables. The alias table is deliberately small:
// unknown institutions pass through as normalized literal text, and
// operators extend the table through LoadAliases instead of code changes.
var (
	defaultHonorifics = []string{
		"dr", "prof", "professor", "mr", "mrs", "ms", "mx", "sir", "dame",
	}

	defaultNameSuffixes = []string{
		"jr", "sr", "ii", "iii", "iv", "phd", "md",
	}

	defaultLegalSuffixes = []string{
		"inc", "ltd", "llc", "corp", "co", "gmbh", "ag", "sa",
	}

	// Token-level expansions applied to institution strings. Values must be
	// single normalized tokens so expansion is a fixed point.
	defaultExpansions = map[string]string{
		"univ": "university",
		"inst": "institute",
		"intl": "international",
		"natl": "national",
		"tech": "technology",
		"dept": "department",
	}

	defaultInstitutionAliases = map[string]string{
		"MIT":          "Massachusetts Institute of Technology",
		"CMU":          "Carnegie Mellon University",
		"UC Berkeley":  "University of California Berkeley",
		"NYU":          "New York University",
		"Georgia Tech": "Georgia Institute of Technology",
	}
)

// aliasFile is the YAML shape for externally supplied tables. All sections
// are optional and merge into the built-in tables.
type aliasFile struct {
	Institutions map[string]string `yaml:"institutions"`
	Expansions   map[string]string `yaml:"expansions"`
	Honorifics   []string          `yaml:"honorifics"`
}

// LoadAliases merges an operator-supplied YAML table into the normalizer.
// Institution alias keys and values are normalized on load, and expansion
// values must fold to a single token, so lookups stay idempotent regardless
// of how the file spells them.
func (n *Normalizer) LoadAliases(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading alias file %s: %w", path, err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing alias file %s: %w", path, err)
	}

	for k, v := range f.Expansions {
		key := foldText(k)
		value := foldText(v)
		if key == "" || value == "" {
			continue
		}
		if strings.Contains(value, " ") {
			return fmt.Errorf("parsing alias file %s: expansion %q: value %q is not a single token", path, k, v)
		}
		n.expansions[key] = value
	}
	// Chained definitions ("u" → "univ" → "university") resolve to their
	// final token here so expansion stays a fixed point.
	for key, value := range n.expansions {
		for i := 0; i < len(n.expansions); i++ {
			next, ok := n.expansions[value]
			if !ok || next == value {
				break
			}
			value = next
		}
		n.expansions[key] = value
	}
	for _, h := range f.Honorifics {
		if key := foldText(h); key != "" {
			n.honorifics[key] = struct{}{}
		}
	}
	for k, v := range f.Institutions {
		n.addInstitutionAlias(k, v)
	}
	return nil
}
