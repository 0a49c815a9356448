// Package normalize trims and canonicalizes user-supplied fields
// before they are stored or used in lookups.
package normalize

import (
	"regexp"
	"strings"
)

// Email lowercases and trims an email address. All email comparisons
// and the unique index operate on this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// SearchPattern trims a search term and escapes regex metacharacters
// so it can be used safely in a $regex filter as a literal substring.
func SearchPattern(s string) string {
	return regexp.QuoteMeta(strings.TrimSpace(s))
}
