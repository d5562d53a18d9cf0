package secrets

import (
	stderrors "errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
)

// KeyringBackend implements Backend over the OS keyring: macOS keychain,
// Windows credential manager, secret-service, kwallet, pass or keyctl,
// whichever the platform offers. Items are stored as raw bytes.
type KeyringBackend struct {
	ring keyring.Keyring
	name string
}

// NewKeyringBackend opens the OS keyring scoped to service.
// allowed restricts which native stores may be used; nil means any
// non-file store available on this platform.
func NewKeyringBackend(service string, opts Options, allowed []keyring.BackendType) (*KeyringBackend, error) {
	if allowed == nil {
		allowed = nativeKeyringTypes()
	}
	if len(allowed) == 0 {
		return nil, keyring.ErrNoAvailImpl
	}

	cfg := keyring.Config{
		ServiceName:              service,
		AllowedBackends:          allowed,
		KeychainTrustApplication: opts.KeychainTrustApplication, // macOS: don't prompt every access
		KWalletAppID:             service,
		KWalletFolder:            opts.KWalletFolder,
		LibSecretCollectionName:  opts.LibSecretCollection,
		PassDir:                  opts.PassDir,
		PassPrefix:               service,
		WinCredPrefix:            service,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	name := "keyring"
	if len(allowed) == 1 {
		name = string(allowed[0])
	}
	return newKeyringBackendFromRing(ring, name), nil
}

func newKeyringBackendFromRing(ring keyring.Keyring, name string) *KeyringBackend {
	return &KeyringBackend{ring: ring, name: name}
}

func (b *KeyringBackend) Name() string { return b.name }

func (b *KeyringBackend) Put(key credential.Key, value credential.Value) error {
	if err := checkPut(key, value); err != nil {
		return err
	}
	item := keyring.Item{
		Key:         key.StorageName(),
		Data:        value.Raw(),
		Label:       key.StorageName(),
		Description: "credstore " + key.Kind.String(),
	}
	if err := b.ring.Set(item); err != nil {
		return fmt.Errorf("keyring set failed: %w", err)
	}
	return nil
}

func (b *KeyringBackend) Get(key credential.Key) (credential.Value, error) {
	item, err := b.ring.Get(key.StorageName())
	if err != nil {
		return credential.Value{}, err
	}
	return credential.FromBytes(key.Kind, item.Data)
}

// Delete reads before removing: some stores (the in-memory array ring, the
// file store) do not report a missing item on Remove.
func (b *KeyringBackend) Delete(key credential.Key) error {
	name := key.StorageName()
	if _, err := b.ring.Get(name); err != nil {
		return err
	}
	if err := b.ring.Remove(name); err != nil {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

func (b *KeyringBackend) Exists(key credential.Key) (bool, error) {
	_, err := b.ring.Get(key.StorageName())
	if err == nil {
		return true, nil
	}
	if b.Classify(err) == errors.CodeNotFound {
		return false, nil
	}
	return false, err
}

func (b *KeyringBackend) Classify(err error) errors.Code {
	switch {
	case stderrors.Is(err, keyring.ErrKeyNotFound):
		return errors.CodeNotFound
	case stderrors.Is(err, keyring.ErrNoAvailImpl):
		return errors.CodeBackendUnavailable
	}
	return classifyCommon(err)
}

// nativeKeyringTypes lists the platform keyrings 99designs/keyring can
// reach here, without its file store (FileBackend wraps that one).
func nativeKeyringTypes() []keyring.BackendType {
	var types []keyring.BackendType
	for _, t := range keyring.AvailableBackends() {
		if t == keyring.FileBackend {
			continue
		}
		types = append(types, t)
	}
	return types
}
