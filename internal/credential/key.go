package credential

import (
	"github.com/semmy-space/credstore/internal/errors"
)

// Key addresses at most one stored item: (service, account) within one kind.
type Key struct {
	Service string
	Account string
	Kind    Kind
}

// MakeKey validates and builds a key.
func MakeKey(service, account string, kind Kind) (Key, error) {
	if service == "" {
		return Key{}, errors.New(errors.CodeInvalidArgument, "service name must not be empty")
	}
	if account == "" {
		return Key{}, errors.New(errors.CodeInvalidArgument, "username must not be empty")
	}
	if !kind.Valid() {
		return Key{}, errors.Newf(errors.CodeInvalidArgument, "invalid credential kind %s", kind)
	}
	return Key{Service: service, Account: account, Kind: kind}, nil
}

// StorageName is the entry name native stores see:
// service/account/kind, so the two kinds never collide.
func (k Key) StorageName() string {
	return k.Service + "/" + k.Account + "/" + k.Kind.String()
}

func (k Key) String() string {
	return k.StorageName()
}
