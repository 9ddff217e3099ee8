package engine

import (
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/text/cases"
)

// NA is the sentinel rendered for unknown values in LLM prompts.
const NA = "N/A"

// Fold returns the Unicode case-folded, whitespace-trimmed form of s.
// Used for every case-insensitive comparison (industry, sport, names).
func Fold(s string) string {
	// A Caser carries transform state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}

// EqualFold reports whether a and b are equal after case folding.
// Empty values never match anything, including each other.
func EqualFold(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	return fa != "" && fa == fb
}

// ContainsEitherFold reports whether a contains b or b contains a, case-insensitively.
// Empty values never match.
func ContainsEitherFold(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// OrNA returns s, or NA if s is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

// JoinOrNA joins non-blank items with ", ", or returns NA when there are none.
func JoinOrNA(items []string) string {
	var kept []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			kept = append(kept, strings.TrimSpace(it))
		}
	}
	if len(kept) == 0 {
		return NA
	}
	return strings.Join(kept, ", ")
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8.
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// StripFences removes markdown code fences from LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the greedy substring from the first '{' to the
// last '}' in s, or "" when no such span exists.
func ExtractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// ExtractJSONArray is ExtractJSONObject for '[' … ']'.
func ExtractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
