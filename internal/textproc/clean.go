// Package textproc cleans recognized text and extracts card-identifying
// fields from it. All functions are pure.
package textproc

import (
	"regexp"
	"strings"
)

var (
	nonAlpha    = regexp.MustCompile(`[^A-Za-z\s]+`)
	collectorRe = regexp.MustCompile(`(?i)([A-Za-z0-9]{3,})\s*(\d+)`)
)

// CleanName strips everything outside the Latin alphabet and whitespace,
// trims, and collapses internal whitespace. OCR noise on a card title is
// mostly stray digits and punctuation, which would poison the fuzzy match.
func CleanName(s string) string {
	s = nonAlpha.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// ExtractCollectorInfo locates a set-code / collector-number pair in the
// recognized collector-band text: three or more alphanumerics, optional
// whitespace, then digits. The first match wins; the set code is
// upper-cased. ok is false when no pair is present, which signals the
// caller to fall back to name-based search.
func ExtractCollectorInfo(s string) (set, number string, ok bool) {
	m := collectorRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), m[2], true
}

// CandidateLines splits full-frame recognition output into ranked name
// candidates: each line cleaned independently, lines at or under minLen
// dropped, OCR's top-to-bottom order preserved as priority order.
func CandidateLines(s string, minLen int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		cleaned := CleanName(line)
		if len(cleaned) > minLen {
			out = append(out, cleaned)
		}
	}
	return out
}
