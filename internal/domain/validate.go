package domain

import (
	"strings"

	"cloud.google.com/go/civil"
)

// DateLayout is the only accepted lexical form for due dates.
const DateLayout = "YYYY-MM-DD"

// ValidateTitle trims raw and rejects an empty result.
func ValidateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", NewValidationError("title cannot be empty")
	}
	return title, nil
}

// ParseDueDate parses a YYYY-MM-DD calendar date. Malformed input and
// out-of-range dates such as 2025-02-30 are rejected.
func ParseDueDate(raw string) (civil.Date, error) {
	d, err := civil.ParseDate(raw)
	if err != nil || !d.IsValid() {
		return civil.Date{}, NewValidationError("invalid date format: %q, expected %s", raw, DateLayout)
	}
	return d, nil
}

// ParsePriority accepts exactly low, med or high (case-sensitive).
// Empty input means no priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.Valid() {
		return PriorityNone, NewValidationError("invalid priority: %q, must be one of: low, med, high", raw)
	}
	return p, nil
}

// ParseTags splits a comma-separated list, trims each segment, drops empty
// ones and removes duplicates keeping the first occurrence. It never fails.
func ParseTags(raw string) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
