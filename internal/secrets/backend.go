// Package secrets adapts native secure-storage facilities to a single
// capability: put, get, delete and exists on a credential key.
package secrets

import (
	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
)

// Backend is the capability every native secure store must provide.
//
// Get and Delete fail with a native error that Classify maps to NotFound
// when the item is absent. Exists reports absence as false and only fails
// when the store itself cannot be used.
type Backend interface {
	// Name identifies the backend in logs and CLI output.
	Name() string

	// Put creates or replaces the item at key.
	Put(key credential.Key, value credential.Value) error

	// Get returns the item at key, decoded as key.Kind.
	Get(key credential.Key) (credential.Value, error)

	// Delete removes the item at key.
	Delete(key credential.Key) error

	// Exists reports whether an item is stored at key.
	Exists(key credential.Key) (bool, error)

	// Classify maps this backend's native errors onto the shared taxonomy.
	Classify(err error) errors.Code
}

// checkPut validates a value against its key before any native call.
func checkPut(key credential.Key, value credential.Value) error {
	if key.Service == "" || key.Account == "" {
		return errors.New(errors.CodeInvalidArgument, "incomplete credential key")
	}
	return value.Validate(key.Kind)
}
