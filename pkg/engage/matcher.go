package engage

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// NameMatcher decides the canonical tally key for a raw participant name.
// It isolates the cross-source join policy from the aggregation algorithm so
// stricter matching can be swapped in without touching the counting loop.
//
// Canonical returns the key to tally under and whether the name should be
// counted at all.
type NameMatcher interface {
	Canonical(name string) (string, bool)
}

// exactMatcher keys tallies by the raw trimmed name. This is the default
// policy: typos and nickname variants across transcript and chat do NOT
// merge, matching the upstream behavior.
type exactMatcher struct{}

// ExactMatch returns the default identity matcher.
func ExactMatch() NameMatcher {
	return exactMatcher{}
}

func (exactMatcher) Canonical(name string) (string, bool) {
	return name, true
}

// foldMatcher keys tallies by a case-folded, punctuation-trimmed form of the
// name, so "jordan li" and "Jordan Li." tally together.
type foldMatcher struct {
	caser cases.Caser
}

// FoldMatch returns a matcher that case-folds names and strips surrounding
// punctuation before comparison.
func FoldMatch() NameMatcher {
	return &foldMatcher{caser: cases.Fold()}
}

func (m *foldMatcher) Canonical(name string) (string, bool) {
	return m.fold(name), true
}

func (m *foldMatcher) fold(name string) string {
	name = strings.TrimFunc(name, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	return m.caser.String(name)
}

// rosterMatcher maps names onto a supplied roster of canonical identities.
// Lookup is fold-based, so roster entries match regardless of casing or
// stray punctuation in the source files.
type rosterMatcher struct {
	fold  *foldMatcher
	index map[string]string

	// strict drops names that are not on the roster instead of passing
	// them through untouched.
	strict bool
}

// RosterMatch returns a matcher backed by the given roster names. When strict
// is true, names absent from the roster are excluded from the tally; otherwise
// they are kept under their raw form.
func RosterMatch(roster []string, strict bool) NameMatcher {
	fold := &foldMatcher{caser: cases.Fold()}
	index := make(map[string]string, len(roster))
	for _, entry := range roster {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		index[fold.fold(entry)] = entry
	}
	return &rosterMatcher{fold: fold, index: index, strict: strict}
}

func (m *rosterMatcher) Canonical(name string) (string, bool) {
	if canonical, ok := m.index[m.fold.fold(name)]; ok {
		return canonical, true
	}
	if m.strict {
		return "", false
	}
	return name, true
}
