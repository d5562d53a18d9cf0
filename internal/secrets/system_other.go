//go:build !windows

package secrets

func cleanStored(s string) string {
	return s
}
