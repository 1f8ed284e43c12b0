package access

import "strings"

// Matches reports whether the permission satisfies at least one pattern in
// the set.
//
// A pattern matches when it equals the permission verbatim, or when it ends
// in "*" and the permission starts with the pattern minus the trailing "*".
// The bare "*" therefore matches every permission, and "drawing.*" matches
// "drawing.read" and "drawing.upload". The prefix compare is a literal
// character prefix, not segment aware: "drawing*" would match "drawingx.read".
// That coarseness is intentional and relied upon by existing role data.
//
// The function is pure and order independent; the same inputs always produce
// the same result.
func Matches(permission string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == permission {
			return true
		}
		if strings.HasSuffix(pattern, "*") && strings.HasPrefix(permission, pattern[:len(pattern)-1]) {
			return true
		}
	}
	return false
}

// ValidPermission reports whether s is a well-formed permission string:
// non-empty and free of whitespace. Both concrete permissions
// ("drawing.read") and patterns ("drawing.*", "*") pass.
func ValidPermission(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t\n\r")
}
