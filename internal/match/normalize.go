package match

import (
	"strings"
	"unicode"
)

// stripSuffixes are dropped from normalized names, longest first. "out" covers
// the common convention of suffixing output-model fields (idout, cardsout).
var stripSuffixes = []string{"timestamp", "ids", "out", "utc", "id", "at"}

// NormalizeIdent normalizes a field name for fuzzy matching: camelCase is
// tokenized, everything is lowercased and separators (_, -, space, .) are
// removed.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(tokenize(s), ""))
}

// NormalizeIdentWithSuffixStrip normalizes and strips one common suffix.
// A suffix is only stripped when something remains afterwards.
func NormalizeIdentWithSuffixStrip(s string) string {
	normalized := NormalizeIdent(s)

	for _, suffix := range stripSuffixes {
		if strings.HasSuffix(normalized, suffix) && len(normalized) > len(suffix) {
			return strings.TrimSuffix(normalized, suffix)
		}
	}

	return normalized
}

func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports whether a new token begins at runes[i]: a lower-to-upper
// transition ("phoneNumber") or the last capital of an acronym ("XMLPayload").
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
