package util

import (
	"regexp"
)

var identifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidIdentifier reports whether s is safe to use as a table or column
// name in a query path or statement.
func IsValidIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}
