// Package normalize produces the canonical form of a log message template.
// Two messages differing only in interpolated values canonicalize to the
// same string, which the grouping stages use as their comparison key.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	// Interpolation markers, replaced before comparison. Dollar-brace
	// templates must be stripped before plain brace placeholders.
	dollarBraceRE = regexp.MustCompile(`\$\{[^}]*\}`)
	braceRE       = regexp.MustCompile(`\{[^{}]*\}`)
	percentRE     = regexp.MustCompile(`%[-+ #0]?[0-9.*]*[a-zA-Z]`)
	hexRE         = regexp.MustCompile(`\b0[xX][0-9a-fA-F]+\b`)
	numberRE      = regexp.MustCompile(`\b[0-9]+(\.[0-9]+)?\b`)

	folder = cases.Fold()
)

// Canonicalize strips variable interpolation markers and numeric literals,
// case-folds, and collapses whitespace. Total: unparseable input falls
// through unchanged apart from folding and trimming.
func Canonicalize(message string) string {
	s := norm.NFC.String(message)
	s = dollarBraceRE.ReplaceAllString(s, " ")
	s = braceRE.ReplaceAllString(s, " ")
	s = percentRE.ReplaceAllString(s, " ")
	s = hexRE.ReplaceAllString(s, " ")
	s = numberRE.ReplaceAllString(s, " ")
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokens splits a canonical message into its comparison tokens.
func Tokens(canonical string) []string {
	return strings.Fields(canonical)
}
