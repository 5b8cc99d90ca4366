// Package brand classifies ANS operators into economic groups from
// their legal names, with an exception list for the UNIMED network
// loaded from an external file at bootstrap.
package brand

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"anspulse/internal/dataset"
)

const (
	// UnimedLabel is the label of the brand backed by the exception list.
	UnimedLabel = "UNIMED"
	// OthersLabel is the sentinel for operators without a legal name.
	OthersLabel = "OUTROS"
)

// brandRule maps name prefixes to a canonical group label. Rules are
// checked in order; some brands have multiple accepted spellings.
type brandRule struct {
	label    string
	prefixes []string
}

// knownBrands is the fixed rule table, in priority order. UNIMED comes
// first so the hard-coded brand wins over any generic prefix.
var knownBrands = []brandRule{
	{UnimedLabel, []string{"UNIMED"}},
	{"BRADESCO", []string{"BRADESCO"}},
	{"AMIL", []string{"AMIL"}},
	{"SULAMERICA", []string{"SUL AMERICA", "SULAMERICA"}},
	{"HAPVIDA", []string{"HAPVIDA"}},
	{"NOTREDAME", []string{"NOTRE DAME", "NOTREDAME", "GNDI"}},
	{"GOLDEN CROSS", []string{"GOLDEN CROSS"}},
	{"PORTO SEGURO", []string{"PORTO SEGURO"}},
}

// Classifier maps an operator's legal name and registry code to an
// economic-group label. It is a pure function of its inputs, the fixed
// rule table and the injected exception set; classification never
// depends on dataset ordering.
type Classifier struct {
	exceptions ExceptionSet
}

// NewClassifier creates a classifier with the given exception set. A nil
// set is valid and degrades to name-prefix rules only.
func NewClassifier(exceptions ExceptionSet) *Classifier {
	return &Classifier{exceptions: exceptions}
}

// Classify returns the economic-group label for an operator.
//
// Priority order: membership of the normalized registry code in the
// UNIMED exception set, then the sentinel for blank names, then the
// known-brand prefix table, then the first whitespace token of the
// normalized name with hyphens removed as an ad-hoc group label.
func (c *Classifier) Classify(legalName, operatorID string) string {
	if c.exceptions.Contains(dataset.NormalizeKey(operatorID)) {
		return UnimedLabel
	}

	name := normalizeName(legalName)
	if name == "" {
		return OthersLabel
	}

	for _, rule := range knownBrands {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(name, prefix) {
				return rule.label
			}
		}
	}

	token := strings.Fields(name)[0]
	return strings.ReplaceAll(token, "-", "")
}

// normalizeName upper-cases, trims and strips combining accents from a
// legal name. Registry spellings are inconsistently accented, so
// "SUL AMÉRICA" and "SUL AMERICA" must match the same prefix.
func normalizeName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}
	return name
}
