//go:build windows

package secrets

import "strings"

// cmdkey-written entries come back with a NUL after every character
// (UTF-16 leftovers).
func cleanStored(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
