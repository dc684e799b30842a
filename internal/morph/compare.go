package morph

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"verbclash/internal/models"
)

// Any run of hyphen or dash glyphs typed for "this form does not exist"
var dashRun = regexp.MustCompile(`^[\-‐‑‒–—―]+$`)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeDashes turns an answer made only of dash glyphs into the
// single placeholder dash; anything else is returned unchanged
func NormalizeDashes(s string) string {
	if dashRun.MatchString(strings.TrimSpace(s)) {
		return models.DashPlaceholder
	}
	return s
}

// Alternatives splits a comma or slash separated list of forms
func Alternatives(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// HasMultipleForms reports whether a canonical answer lists more than one accepted form
func HasMultipleForms(canonical string) bool {
	return len(Alternatives(canonical)) > 1
}

func normalizeForm(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = whitespace.ReplaceAllString(s, " ")
	s = cases.Fold().String(s)
	return NormalizeDashes(s)
}

// CompareForms grades input against canonical. Both may list several
// forms. The answer is correct when it names at least one form and
// every form it names is accepted.
func CompareForms(canonical, input string) bool {
	accepted := make(map[string]bool)
	for _, alt := range Alternatives(canonical) {
		accepted[normalizeForm(alt)] = true
	}

	given := Alternatives(input)
	if len(given) == 0 {
		return false
	}
	for _, alt := range given {
		if !accepted[normalizeForm(alt)] {
			return false
		}
	}
	return true
}
