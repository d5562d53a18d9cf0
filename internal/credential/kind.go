// Package credential holds the typed model of what callers store: a key
// addressing an item and a value that is either password text or secret bytes.
package credential

import (
	"fmt"

	"github.com/semmy-space/credstore/internal/errors"
)

// Kind tags a credential as password text or opaque secret bytes.
// Each kind occupies its own storage namespace.
type Kind int

const (
	KindPassword Kind = iota + 1
	KindSecret
)

// String returns the lowercase tag appended to storage keys.
func (k Kind) String() string {
	switch k {
	case KindPassword:
		return "password"
	case KindSecret:
		return "secret"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// WireName returns the tag used in the JSON wire shape.
func (k Kind) WireName() string {
	switch k {
	case KindPassword:
		return "Password"
	case KindSecret:
		return "Secret"
	default:
		return ""
	}
}

func (k Kind) Valid() bool {
	return k == KindPassword || k == KindSecret
}

// ParseKind accepts either the storage tag or the wire name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "password", "Password":
		return KindPassword, nil
	case "secret", "Secret":
		return KindSecret, nil
	}
	return 0, errors.Newf(errors.CodeInvalidArgument, "unknown credential kind %q", s)
}
