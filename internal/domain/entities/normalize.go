package entities

import "strings"

// NormalizeEmail trims and lowercases an email address.
// It returns false when nothing is left, meaning no email was provided.
func NormalizeEmail(email string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(email))
	return key, key != ""
}

// NormalizeName builds the fuzzy-matching key for a person's name.
// Parts are trimmed and lowercased; empty parts contribute nothing.
func NormalizeName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{first, last} {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeTitle converts a case title to its per-client matching key.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
