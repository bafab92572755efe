package service

import (
	"regexp"
	"strings"

	"github.com/vanshika/warmpath/internal/pathfinder"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeEmail lowercases and trims the provided email.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// normalizeStrength clamps a relationship strength into the valid range.
// Zero means unspecified and is stored as is.
func normalizeStrength(s int) int {
	switch {
	case s == 0:
		return 0
	case s < pathfinder.MinStrength:
		return pathfinder.MinStrength
	case s > pathfinder.MaxStrength:
		return pathfinder.MaxStrength
	}
	return s
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// dedupeIDs trims ids and drops blanks and repeats, keeping first-seen order.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
