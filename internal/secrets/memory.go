package secrets

import (
	stderrors "errors"
	"sync"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
)

var errMemoryNotFound = stderrors.New("memory: item not found")

// MemoryBackend keeps credentials in process memory. It is the reference
// backend for tests and for --backend memory dry runs.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string][]byte)}
}

func (m *MemoryBackend) Name() string { return string(TypeMemory) }

func (m *MemoryBackend) Put(key credential.Key, value credential.Value) error {
	if err := checkPut(key, value); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key.StorageName()] = value.Raw()
	return nil
}

func (m *MemoryBackend) Get(key credential.Key) (credential.Value, error) {
	m.mu.RLock()
	raw, ok := m.items[key.StorageName()]
	m.mu.RUnlock()
	if !ok {
		return credential.Value{}, errMemoryNotFound
	}
	return credential.FromBytes(key.Kind, raw)
}

func (m *MemoryBackend) Delete(key credential.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := key.StorageName()
	if _, ok := m.items[name]; !ok {
		return errMemoryNotFound
	}
	delete(m.items, name)
	return nil
}

func (m *MemoryBackend) Exists(key credential.Key) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key.StorageName()]
	return ok, nil
}

func (m *MemoryBackend) Classify(err error) errors.Code {
	if stderrors.Is(err, errMemoryNotFound) {
		return errors.CodeNotFound
	}
	return ""
}

// Len returns the number of stored items across both kinds.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
