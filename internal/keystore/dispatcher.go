package keystore

import (
	"log/slog"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
	"github.com/semmy-space/credstore/internal/secrets"
)

// Operation names, as reported in errors and logs.
const (
	OpInitialize     = "initialize"
	OpSetPassword    = "set_password"
	OpGetPassword    = "get_password"
	OpDeletePassword = "delete_password"
	OpHasPassword    = "has_password"
	OpSetSecret      = "set_secret"
	OpGetSecret      = "get_secret"
	OpDeleteSecret   = "delete_secret"
	OpHasSecret      = "has_secret"
)

// Dispatcher is the single entry point for credential operations. Every
// failure it returns is an *errors.Error.
//
// Operations on the same key are not serialized: a set racing a delete has
// whatever outcome the native store gives it.
type Dispatcher struct {
	registry *Registry
	log      *slog.Logger
}

func NewDispatcher(registry *Registry, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{registry: registry, log: log}
}

// New wires a fresh registry around open.
func New(open Opener, log *slog.Logger) *Dispatcher {
	return NewDispatcher(NewRegistry(open), log)
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

func (d *Dispatcher) Initialize(service string) error {
	if err := d.registry.Initialize(service); err != nil {
		return errors.Normalize(OpInitialize, err, nil)
	}
	b, _, _ := d.registry.ActiveBackend()
	d.log.Info("credential store initialized", "service", service, "backend", b.Name())
	return nil
}

func (d *Dispatcher) SetPassword(username, password string) error {
	value, err := credential.Password(password)
	if err != nil {
		return errors.Normalize(OpSetPassword, err, nil)
	}
	return d.put(OpSetPassword, username, value)
}

func (d *Dispatcher) GetPassword(username string) (string, error) {
	value, err := d.get(OpGetPassword, username, credential.KindPassword)
	if err != nil {
		return "", err
	}
	text, _ := value.Text()
	return text, nil
}

func (d *Dispatcher) DeletePassword(username string) error {
	return d.delete(OpDeletePassword, username, credential.KindPassword)
}

func (d *Dispatcher) HasPassword(username string) (bool, error) {
	return d.exists(OpHasPassword, username, credential.KindPassword)
}

func (d *Dispatcher) SetSecret(username string, secret []byte) error {
	return d.put(OpSetSecret, username, credential.Secret(secret))
}

func (d *Dispatcher) GetSecret(username string) ([]byte, error) {
	value, err := d.get(OpGetSecret, username, credential.KindSecret)
	if err != nil {
		return nil, err
	}
	data, _ := value.Bytes()
	return data, nil
}

func (d *Dispatcher) DeleteSecret(username string) error {
	return d.delete(OpDeleteSecret, username, credential.KindSecret)
}

func (d *Dispatcher) HasSecret(username string) (bool, error) {
	return d.exists(OpHasSecret, username, credential.KindSecret)
}

// Get returns the stored value of either kind, for callers that want the
// tagged wire shape.
func (d *Dispatcher) Get(username string, kind credential.Kind) (credential.Value, error) {
	op := OpGetPassword
	if kind == credential.KindSecret {
		op = OpGetSecret
	}
	return d.get(op, username, kind)
}

// resolve checks initialization and builds the kind-tagged key.
func (d *Dispatcher) resolve(op, username string, kind credential.Kind) (secrets.Backend, credential.Key, error) {
	b, service, err := d.registry.ActiveBackend()
	if err != nil {
		return nil, credential.Key{}, errors.Normalize(op, err, nil)
	}
	key, err := credential.MakeKey(service, username, kind)
	if err != nil {
		return nil, credential.Key{}, errors.Normalize(op, err, nil)
	}
	d.log.Debug("credential op", "op", op, "account", username, "kind", kind.String(), "backend", b.Name())
	return b, key, nil
}

func (d *Dispatcher) put(op, username string, value credential.Value) error {
	b, key, err := d.resolve(op, username, value.Kind())
	if err != nil {
		return err
	}
	if err := b.Put(key, value); err != nil {
		return d.fail(op, b, err)
	}
	return nil
}

func (d *Dispatcher) get(op, username string, kind credential.Kind) (credential.Value, error) {
	b, key, err := d.resolve(op, username, kind)
	if err != nil {
		return credential.Value{}, err
	}
	value, err := b.Get(key)
	if err != nil {
		return credential.Value{}, d.fail(op, b, err)
	}
	if err := value.Validate(kind); err != nil {
		return credential.Value{}, d.fail(op, b, err)
	}
	return value, nil
}

func (d *Dispatcher) delete(op, username string, kind credential.Kind) error {
	b, key, err := d.resolve(op, username, kind)
	if err != nil {
		return err
	}
	if err := b.Delete(key); err != nil {
		return d.fail(op, b, err)
	}
	return nil
}

// exists never reports NotFound: absence is false.
func (d *Dispatcher) exists(op, username string, kind credential.Kind) (bool, error) {
	b, key, err := d.resolve(op, username, kind)
	if err != nil {
		return false, err
	}
	ok, err := b.Exists(key)
	if err != nil {
		e := errors.Normalize(op, err, b.Classify)
		if e.Code == errors.CodeNotFound {
			return false, nil
		}
		d.logFailure(b, e)
		return false, e
	}
	return ok, nil
}

func (d *Dispatcher) fail(op string, b secrets.Backend, err error) *errors.Error {
	e := errors.Normalize(op, err, b.Classify)
	d.logFailure(b, e)
	return e
}

func (d *Dispatcher) logFailure(b secrets.Backend, e *errors.Error) {
	if e.Code == errors.CodeNotFound {
		d.log.Debug("credential not found", "op", e.Op, "backend", b.Name())
		return
	}
	d.log.Warn("credential op failed", "op", e.Op, "code", string(e.Code), "backend", b.Name(), "err", e.Unwrap())
}
