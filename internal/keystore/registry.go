// Package keystore is the credential-store core: a registry holding the one
// active backend and a dispatcher exposing the nine public operations.
package keystore

import (
	"sync"

	"github.com/semmy-space/credstore/internal/errors"
	"github.com/semmy-space/credstore/internal/secrets"
)

// Opener constructs the platform backend for a service name.
type Opener func(service string) (secrets.Backend, error)

// Registry holds the process-wide store state. It starts uninitialized,
// moves to initialized exactly once, and is never torn down.
type Registry struct {
	open Opener

	mu      sync.RWMutex
	service string
	backend secrets.Backend
}

func NewRegistry(open Opener) *Registry {
	return &Registry{open: open}
}

// Initialize selects and constructs the backend for service.
// Repeating it with the same service is a no-op; a different service fails
// with AlreadyInitialized. A failed open leaves the registry uninitialized.
func (r *Registry) Initialize(service string) error {
	if service == "" {
		return errors.New(errors.CodeInvalidArgument, "service name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend != nil {
		if r.service == service {
			return nil
		}
		return errors.Newf(errors.CodeAlreadyInitialized,
			"store already initialized for service %q", r.service).
			WithDetail("service", r.service)
	}

	if r.open == nil {
		return errors.New(errors.CodeBackendUnavailable, "no backend opener configured")
	}
	b, err := r.open(service)
	if err != nil {
		return errors.Normalize("initialize", err, openFailed)
	}
	if b == nil {
		return errors.New(errors.CodeBackendUnavailable, "backend opener returned no backend")
	}

	r.service = service
	r.backend = b
	return nil
}

// openFailed classifies foreign opener errors: a store that cannot be
// opened is unavailable.
func openFailed(error) errors.Code { return errors.CodeBackendUnavailable }

// ActiveBackend returns the backend and the service it was opened for.
func (r *Registry) ActiveBackend() (secrets.Backend, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.backend == nil {
		return nil, "", errors.New(errors.CodeNotInitialized, "credential store is not initialized")
	}
	return r.backend, r.service, nil
}

// Initialized reports whether Initialize has succeeded.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backend != nil
}

// ServiceName returns the service the registry was initialized with, or "".
func (r *Registry) ServiceName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.service
}
