package utils

import "strings"

// NormalizeEmail is applied to every email before it is stored or looked up,
// which makes uniqueness and lookup case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
