package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// ParseDuration safely parses duration string like "5m", returning fallback when empty or invalid
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil || duration < 0 {
		return fallback
	}
	return duration
}

// CountWords counts whitespace-delimited tokens
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Slugify lowercases s and collapses everything that is not [a-z0-9] into single dashes
func Slugify(s string, maxLen int) string {
	slug := strings.ToLower(s)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	// Limit length to avoid filesystem issues
	if maxLen > 0 && len(slug) > maxLen {
		slug = strings.Trim(slug[:maxLen], "-")
	}
	if slug == "" {
		return "article"
	}
	return slug
}

// Truncate cuts s to at most n bytes, ending with "..." when shortened
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	cut := s[:n-3]
	// don't split a multi-byte rune
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimSpace(cut) + "..."
}
