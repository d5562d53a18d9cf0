package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	e := New(CodeInvalidArgument, "username must not be empty")
	assert.Equal(t, "InvalidArgument: username must not be empty", e.Error())

	e = e.WithOp("set_password")
	assert.Equal(t, "set_password: InvalidArgument: username must not be empty", e.Error())

	cause := stderrors.New("dbus: connection refused")
	e = Wrap(CodeBackendUnavailable, "secure storage unavailable", cause)
	assert.Equal(t, "BackendUnavailable: secure storage unavailable: dbus: connection refused", e.Error())

	var nilErr *Error
	assert.Empty(t, nilErr.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("cause")
	e := Wrap(CodeUnknown, "msg", cause)
	assert.Same(t, cause, e.Unwrap())
	assert.True(t, stderrors.Is(e, cause))

	assert.Nil(t, New(CodeNotFound, "msg").Unwrap())
}

func TestSentinelMatching(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "credential not found").WithOp("get_secret"))

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrBackendUnavailable))
	assert.True(t, Is(err, CodeNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, CodeUnknown, CodeOf(stderrors.New("plain")))
	assert.Equal(t, CodeEncoding, CodeOf(New(CodeEncoding, "bad utf-8")))
}

func TestWithDetailCopies(t *testing.T) {
	base := New(CodeInvalidArgument, "too large")
	withSize := base.WithDetail("size", 4096)

	assert.Nil(t, base.Details)
	assert.Equal(t, 4096, withSize.Details["size"])
}

func TestAllCodes(t *testing.T) {
	codes := AllCodes()
	assert.Len(t, codes, 7)

	seen := make(map[Code]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
		assert.True(t, c.Valid())
	}
	assert.False(t, Code("Bogus").Valid())
}

func TestNormalize(t *testing.T) {
	errMissing := stderrors.New("item not found")
	errLocked := stderrors.New("collection is locked")
	classify := func(err error) Code {
		switch {
		case stderrors.Is(err, errMissing):
			return CodeNotFound
		case stderrors.Is(err, errLocked):
			return CodeBackendUnavailable
		}
		return ""
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Normalize("get_password", nil, classify))
	})

	t.Run("classified native error", func(t *testing.T) {
		e := Normalize("get_password", errMissing, classify)
		require.NotNil(t, e)
		assert.Equal(t, CodeNotFound, e.Code)
		assert.Equal(t, "get_password", e.Op)
		assert.Same(t, errMissing, e.Unwrap())

		e = Normalize("has_secret", errLocked, classify)
		assert.Equal(t, CodeBackendUnavailable, e.Code)
	})

	t.Run("unclassified becomes Unknown with raw message", func(t *testing.T) {
		raw := stderrors.New("OSStatus -25308")
		e := Normalize("set_secret", raw, classify)
		assert.Equal(t, CodeUnknown, e.Code)
		assert.Equal(t, "OSStatus -25308", e.Message)
		assert.Equal(t, "set_secret: Unknown: OSStatus -25308", e.Error())
	})

	t.Run("nil classifier", func(t *testing.T) {
		e := Normalize("op", errMissing, nil)
		assert.Equal(t, CodeUnknown, e.Code)
	})

	t.Run("classifier returning junk code", func(t *testing.T) {
		e := Normalize("op", errMissing, func(error) Code { return "Nope" })
		assert.Equal(t, CodeUnknown, e.Code)
	})

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		in := New(CodeEncoding, "password is not valid UTF-8")
		e := Normalize("set_password", in, classify)
		assert.Equal(t, CodeEncoding, e.Code)
		assert.Equal(t, "set_password", e.Op)

		tagged := in.WithOp("inner")
		assert.Same(t, tagged, Normalize("outer", tagged, classify))
	})
}

func TestChain(t *testing.T) {
	first := func(err error) Code {
		if err.Error() == "a" {
			return CodeNotFound
		}
		return ""
	}
	second := func(err error) Code {
		if err.Error() == "b" {
			return CodeEncoding
		}
		return ""
	}
	c := Chain(first, nil, second)

	assert.Equal(t, CodeNotFound, c(stderrors.New("a")))
	assert.Equal(t, CodeEncoding, c(stderrors.New("b")))
	assert.Equal(t, Code(""), c(stderrors.New("c")))
}
