package credential

import (
	"bytes"
	"unicode/utf8"

	"github.com/semmy-space/credstore/internal/errors"
)

// Value is a tagged union: password text or secret bytes.
// The zero Value is invalid.
type Value struct {
	kind Kind
	text string
	data []byte
}

// Password builds a password value. Text must be valid UTF-8.
func Password(text string) (Value, error) {
	if !utf8.ValidString(text) {
		return Value{}, errors.New(errors.CodeEncoding, "password is not valid UTF-8")
	}
	return Value{kind: KindPassword, text: text}, nil
}

// Secret builds a secret value holding a private copy of b.
func Secret(b []byte) Value {
	return Value{kind: KindSecret, data: bytes.Clone(nonNil(b))}
}

// PasswordFromBytes decodes a stored password. It is used by backends that
// hand back raw bytes.
func PasswordFromBytes(b []byte) (Value, error) {
	if !utf8.Valid(b) {
		return Value{}, errors.New(errors.CodeEncoding, "stored password is not valid UTF-8")
	}
	return Value{kind: KindPassword, text: string(b)}, nil
}

// FromBytes rebuilds a value of the given kind from raw stored bytes.
func FromBytes(kind Kind, b []byte) (Value, error) {
	switch kind {
	case KindPassword:
		return PasswordFromBytes(b)
	case KindSecret:
		return Secret(b), nil
	}
	return Value{}, errors.Newf(errors.CodeInvalidArgument, "invalid credential kind %s", kind)
}

func (v Value) Kind() Kind { return v.kind }

// Text returns the password text. ok is false for secrets.
func (v Value) Text() (text string, ok bool) {
	return v.text, v.kind == KindPassword
}

// Bytes returns a copy of the secret payload. ok is false for passwords.
func (v Value) Bytes() (b []byte, ok bool) {
	if v.kind != KindSecret {
		return nil, false
	}
	return bytes.Clone(v.data), true
}

// Raw returns the bytes a byte-oriented backend stores for v.
func (v Value) Raw() []byte {
	if v.kind == KindPassword {
		return []byte(v.text)
	}
	return bytes.Clone(v.data)
}

// Len is the payload size in bytes.
func (v Value) Len() int {
	if v.kind == KindPassword {
		return len(v.text)
	}
	return len(v.data)
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindPassword {
		return v.text == o.text
	}
	return bytes.Equal(v.data, o.data)
}

// Validate checks that v is a well-formed value of the expected kind.
func (v Value) Validate(want Kind) error {
	if !v.kind.Valid() {
		return errors.New(errors.CodeInvalidArgument, "credential value has no kind")
	}
	if v.kind != want {
		return errors.Newf(errors.CodeInvalidArgument, "expected %s value, got %s", want, v.kind)
	}
	if v.kind == KindPassword && !utf8.ValidString(v.text) {
		return errors.New(errors.CodeEncoding, "password is not valid UTF-8")
	}
	return nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
