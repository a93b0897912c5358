package widget

import "strings"

// Match reports whether query occurs in title, ignoring case. Folding is a
// plain strings.ToLower with no locale rules.
func Match(title, query string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}
