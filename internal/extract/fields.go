// Package extract turns DOM fragments from third-party listing pages into
// partial business records. Everything here is best-effort: a field that
// cannot be parsed is absent, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	phoneRe      = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	ratingRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*star`)
	reviewRe     = regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*review`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Phone returns the first North-American-style phone number in text with its
// original separators preserved.
func Phone(text string) (string, bool) {
	m := phoneRe.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

// Rating returns the first decimal number immediately followed by the word
// "star". Values outside the 0–5 scale are treated as absent.
func Rating(text string) (float64, bool) {
	m := ratingRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 || v > 5 {
		return 0, false
	}
	return v, true
}

// ReviewCount returns the first integer immediately followed by "review",
// with thousands separators stripped.
func ReviewCount(text string) (int, bool) {
	m := reviewRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// CleanText collapses internal whitespace runs to a single space and trims
// the result. Empty input yields an empty string, not absence.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
