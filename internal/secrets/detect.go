package secrets

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// QuietEnv suppresses the file store fallback notice when set to 1 or true.
const QuietEnv = "CREDSTORE_QUIET"

// noticeMarker returns the file listing the file store directories whose
// fallback has already been announced, one per line. Tests replace it.
var noticeMarker = func() string {
	return filepath.Join(xdg.DataHome, "credstore", "file-fallback-notices")
}

// announceFallback tells the user, once per store directory, that
// credentials are going to the encrypted file store instead of the OS
// keyring. Repeats are logged at debug level only.
func announceFallback(log *slog.Logger, reason, dir string) {
	if quietMode() {
		return
	}
	marker := noticeMarker()
	if announced(marker, dir) {
		log.Debug("using encrypted file store", "reason", reason, "dir", dir)
		return
	}
	log.Warn("using encrypted file store", "reason", reason, "dir", dir)
	recordAnnounced(marker, dir)
}

func announced(marker, dir string) bool {
	data, err := os.ReadFile(marker)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == dir {
			return true
		}
	}
	return false
}

func recordAnnounced(marker, dir string) {
	if err := os.MkdirAll(filepath.Dir(marker), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(marker, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(dir + "\n")
}

func quietMode() bool {
	v := os.Getenv(QuietEnv)
	return v == "1" || v == "true"
}

// keyringlessReason names why the OS keyring should not be tried in this
// session, or returns "" when it should.
func keyringlessReason() string {
	switch {
	case IsWSL():
		return "wsl"
	case IsHeadless():
		return "headless"
	}
	return ""
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if running without a display server.
// Only applicable on Linux; macOS and Windows are assumed to have GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
