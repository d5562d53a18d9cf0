package secrets

import (
	"encoding/base64"
	stderrors "errors"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
)

// SystemBackend implements Backend over zalando/go-keyring, which only
// stores strings. Passwords are stored as-is; secrets are base64-encoded.
type SystemBackend struct {
	service string
}

func NewSystemBackend(service string) *SystemBackend {
	return &SystemBackend{service: service}
}

func (b *SystemBackend) Name() string { return string(TypeSystem) }

func (b *SystemBackend) Put(key credential.Key, value credential.Value) error {
	if err := checkPut(key, value); err != nil {
		return err
	}
	var encoded string
	if text, ok := value.Text(); ok {
		encoded = text
	} else {
		data, _ := value.Bytes()
		encoded = base64.StdEncoding.EncodeToString(data)
	}
	return gokeyring.Set(b.service, key.StorageName(), encoded)
}

func (b *SystemBackend) Get(key credential.Key) (credential.Value, error) {
	stored, err := gokeyring.Get(b.service, key.StorageName())
	if err != nil {
		return credential.Value{}, err
	}
	if key.Kind == credential.KindPassword {
		return credential.PasswordFromBytes([]byte(cleanStored(stored)))
	}
	data, err := base64.StdEncoding.DecodeString(cleanStored(stored))
	if err != nil {
		return credential.Value{}, errors.Wrap(errors.CodeEncoding, "stored secret is not valid base64", err)
	}
	return credential.Secret(data), nil
}

func (b *SystemBackend) Delete(key credential.Key) error {
	return gokeyring.Delete(b.service, key.StorageName())
}

func (b *SystemBackend) Exists(key credential.Key) (bool, error) {
	_, err := gokeyring.Get(b.service, key.StorageName())
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, gokeyring.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (b *SystemBackend) Classify(err error) errors.Code {
	var corrupt base64.CorruptInputError
	switch {
	case stderrors.Is(err, gokeyring.ErrNotFound):
		return errors.CodeNotFound
	case stderrors.Is(err, gokeyring.ErrUnsupportedPlatform):
		return errors.CodeBackendUnavailable
	case stderrors.Is(err, gokeyring.ErrSetDataTooBig):
		return errors.CodeInvalidArgument
	case stderrors.As(err, &corrupt):
		return errors.CodeEncoding
	}
	return classifyCommon(err)
}
