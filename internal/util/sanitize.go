package util

import "strings"

// SanitizeUsername trims whitespace from an operator-entered username.
// Usernames stay case-sensitive: "admin" and "ADMIN" are distinct principals.
func SanitizeUsername(s string) string {
	return strings.TrimSpace(s)
}

// ContainsSuspicious reports whether an input carries markup or injection
// characters that never belong in a username or device identifier.
func ContainsSuspicious(s string) bool {
	lower := strings.ToLower(s)
	for _, c := range []string{"<", ">", "$", "{", "}", "script"} {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}
