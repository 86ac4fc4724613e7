package normalization

import (
	"strings"
	"unicode"
)

// ParseInputString lowercases and trims free-form user input.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ConceptKey maps display text to a stable graph-node key: lowercase, runs of
// whitespace and punctuation collapse to a single "-", everything that is not
// a letter or digit is dropped. Total and idempotent; distinct labels that
// collapse to the same key are treated as the same concept.
func ConceptKey(label string) string {
	s := ParseInputString(label)
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}

// UserKey derives the graph-node key for an external account id.
func UserKey(accountID string) string {
	return "user-" + ConceptKey(accountID)
}

// PathKey derives the graph-node key for a learning path record id.
func PathKey(recordID string) string {
	return "learningpath-" + ConceptKey(recordID)
}
