package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
	"github.com/gofrs/flock"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
)

const lockTimeout = 10 * time.Second

// FileBackend stores credentials in 99designs/keyring's encrypted file
// store. It is the fallback for environments where the OS keyring is
// unavailable (WSL, headless, Docker). Mutations hold an exclusive file
// lock so concurrent processes never interleave a read-then-remove.
type FileBackend struct {
	*KeyringBackend
	dir  string
	lock *flock.Flock
}

// NewFileBackend opens the file store under opts.FileDir, or the XDG data
// directory when unset. Without opts.FilePassword the user is prompted on
// the terminal the first time an item is read or written.
func NewFileBackend(service string, opts Options) (*FileBackend, error) {
	dir := opts.FileDir
	if dir == "" {
		dir = DefaultFileDir(service)
	}

	// Create the directory with 0700 permissions
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	prompt := opts.FilePassword
	if prompt == nil {
		prompt = keyring.TerminalPrompt
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:      service,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open file keyring: %w", err)
	}

	return &FileBackend{
		KeyringBackend: newKeyringBackendFromRing(ring, string(TypeFile)),
		dir:            dir,
		lock:           flock.New(filepath.Clean(dir) + ".lock"),
	}, nil
}

// DefaultFileDir returns the per-service file store directory.
// Typically ~/.local/share/credstore/keyring/<service> on Linux.
func DefaultFileDir(service string) string {
	return filepath.Join(xdg.DataHome, "credstore", "keyring", service)
}

// Dir returns the directory holding the encrypted items.
func (b *FileBackend) Dir() string { return b.dir }

func (b *FileBackend) Put(key credential.Key, value credential.Value) error {
	return b.withLock(true, func() error {
		return b.KeyringBackend.Put(key, value)
	})
}

func (b *FileBackend) Get(key credential.Key) (v credential.Value, err error) {
	err = b.withLock(false, func() error {
		v, err = b.KeyringBackend.Get(key)
		return err
	})
	return v, err
}

func (b *FileBackend) Delete(key credential.Key) error {
	return b.withLock(true, func() error {
		return b.KeyringBackend.Delete(key)
	})
}

func (b *FileBackend) Exists(key credential.Key) (ok bool, err error) {
	err = b.withLock(false, func() error {
		ok, err = b.KeyringBackend.Exists(key)
		return err
	})
	return ok, err
}

// withLock runs fn holding the store lock, exclusive for writers and
// shared for readers.
func (b *FileBackend) withLock(exclusive bool, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = b.lock.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = b.lock.TryRLockContext(ctx, 100*time.Millisecond)
	}
	if err != nil {
		return errors.Wrap(errors.CodeBackendUnavailable, "failed to acquire credential file lock", err)
	}
	if !locked {
		return errors.New(errors.CodeBackendUnavailable, "failed to acquire credential file lock: timeout")
	}
	defer b.lock.Unlock()

	return fn()
}
