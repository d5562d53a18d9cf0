package secrets

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/semmy-space/credstore/internal/errors"
)

// Message fragments emitted by keychain, secret-service, kwallet, pass and
// wincred when the store exists but cannot be used right now. Checked
// before the not-found fragments: "executable file not found" means pass
// is missing, not the item.
var unavailableFragments = []string{
	"executable file not found",
	"locked",
	"permission denied",
	"access denied",
	"not provided by any .service files",
	"cannot autolaunch",
	"no such interface",
	"org.freedesktop.dbus.error",
	"user canceled",
	"user interaction is not allowed",
	"interaction not allowed",
	"integrity check failed",
	"no keyring",
}

var notFoundFragments = []string{
	"item not found",
	"could not be found",
	"element not found",
	"no such secret",
	"not in the password store",
}

var tooLargeFragments = []string{
	"too big",
	"too large",
	"exceeds",
}

// classifyCommon recognizes failures shared across native stores:
// filesystem errors and well-known message fragments.
func classifyCommon(err error) errors.Code {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.CodeNotFound
	case stderrors.Is(err, fs.ErrPermission):
		return errors.CodeBackendUnavailable
	}

	msg := strings.ToLower(err.Error())
	for _, f := range unavailableFragments {
		if strings.Contains(msg, f) {
			return errors.CodeBackendUnavailable
		}
	}
	for _, f := range notFoundFragments {
		if strings.Contains(msg, f) {
			return errors.CodeNotFound
		}
	}
	for _, f := range tooLargeFragments {
		if strings.Contains(msg, f) {
			return errors.CodeInvalidArgument
		}
	}
	return ""
}
