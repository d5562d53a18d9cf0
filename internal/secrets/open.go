package secrets

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/99designs/keyring"

	"github.com/semmy-space/credstore/internal/errors"
)

// Type names a backend that Open can construct.
type Type string

const (
	TypeAuto          Type = "auto"
	TypeKeychain      Type = Type(keyring.KeychainBackend)
	TypeWinCred       Type = Type(keyring.WinCredBackend)
	TypeSecretService Type = Type(keyring.SecretServiceBackend)
	TypeKWallet       Type = Type(keyring.KWalletBackend)
	TypePass          Type = Type(keyring.PassBackend)
	TypeKeyCtl        Type = Type(keyring.KeyCtlBackend)
	TypeFile          Type = Type(keyring.FileBackend)
	TypeSystem        Type = "system"
	TypeMemory        Type = "memory"
)

// AllTypes returns every backend type Open accepts, sorted.
func AllTypes() []Type {
	types := []Type{
		TypeAuto, TypeKeychain, TypeWinCred, TypeSecretService, TypeKWallet,
		TypePass, TypeKeyCtl, TypeFile, TypeSystem, TypeMemory,
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// ParseType validates a backend name. Empty means auto.
func ParseType(s string) (Type, error) {
	if s == "" {
		return TypeAuto, nil
	}
	for _, t := range AllTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errors.Newf(errors.CodeInvalidArgument, "unknown backend %q", s)
}

// Options configures backend construction.
type Options struct {
	Type Type

	// FileDir is where the file backend keeps its items.
	FileDir string
	// FilePassword supplies the file backend's encryption password.
	FilePassword keyring.PromptFunc

	KeychainTrustApplication bool
	KWalletFolder            string
	LibSecretCollection      string
	PassDir                  string

	Logger *slog.Logger
}

// Open constructs the backend selected by opts for service.
//
// TypeAuto picks the encrypted file store in WSL and headless sessions,
// otherwise the first working OS keyring, falling back to the file store
// when none can be opened.
func Open(service string, opts Options) (Backend, error) {
	if service == "" {
		return nil, errors.New(errors.CodeInvalidArgument, "service name must not be empty")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	t := opts.Type
	if t == "" {
		t = TypeAuto
	}

	switch t {
	case TypeAuto:
		return openAuto(service, opts, log)
	case TypeMemory:
		return NewMemoryBackend(), nil
	case TypeSystem:
		return NewSystemBackend(service), nil
	case TypeFile:
		b, err := NewFileBackend(service, opts)
		if err != nil {
			return nil, unavailable(t, err)
		}
		return b, nil
	case TypeKeychain, TypeWinCred, TypeSecretService, TypeKWallet, TypePass, TypeKeyCtl:
		b, err := NewKeyringBackend(service, opts, []keyring.BackendType{keyring.BackendType(t)})
		if err != nil {
			return nil, unavailable(t, err)
		}
		return b, nil
	}
	return nil, errors.Newf(errors.CodeInvalidArgument, "unknown backend %q", t)
}

func openAuto(service string, opts Options, log *slog.Logger) (Backend, error) {
	// WSL and headless environments can't use keyring reliably
	if reason := keyringlessReason(); reason != "" {
		return openFallback(service, opts, log, reason)
	}

	b, err := NewKeyringBackend(service, opts, nil)
	if err == nil {
		log.Debug("opened os keyring", "service", service, "backend", b.Name())
		return b, nil
	}

	log.Debug("os keyring unavailable", "service", service, "err", err)
	return openFallback(service, opts, log, "keyring unavailable: "+err.Error())
}

func openFallback(service string, opts Options, log *slog.Logger, reason string) (Backend, error) {
	fb, err := NewFileBackend(service, opts)
	if err != nil {
		return nil, unavailable(TypeFile, err)
	}
	announceFallback(log, reason, fb.Dir())
	return fb, nil
}

func unavailable(t Type, err error) error {
	return errors.Wrap(errors.CodeBackendUnavailable, fmt.Sprintf("cannot open %s backend", t), err).
		WithDetail("backend", string(t))
}

// Availability describes one backend type on this host.
type Availability struct {
	Type      Type
	Available bool
	Note      string
}

// Available reports which backend types can be used on this host.
func Available() []Availability {
	native := make(map[keyring.BackendType]bool)
	for _, t := range keyring.AvailableBackends() {
		native[t] = true
	}

	var out []Availability
	for _, t := range AllTypes() {
		a := Availability{Type: t}
		switch t {
		case TypeAuto:
			a.Available = true
			a.Note = "first working OS keyring, file fallback"
		case TypeMemory:
			a.Available = true
			a.Note = "process memory, not persisted"
		case TypeSystem:
			a.Available = true
			a.Note = "go-keyring, string storage"
		case TypeFile:
			a.Available = native[keyring.FileBackend]
			a.Note = "encrypted files under " + DefaultFileDir("<service>")
		default:
			a.Available = native[keyring.BackendType(t)]
		}
		out = append(out, a)
	}
	return out
}
