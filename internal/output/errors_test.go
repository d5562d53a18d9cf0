package output

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/credstore/internal/errors"
)

func TestNewCLIError(t *testing.T) {
	err := NewCLIError(ExitUsage, "bad flag")
	assert.Equal(t, ExitUsage, err.ExitCode)
	assert.Equal(t, "bad flag", err.Message)
	assert.Empty(t, err.Hint)
}

func TestCLIErrorWithHint(t *testing.T) {
	err := NewCLIError(ExitGeneral, "failed")
	result := err.WithHint("Run: credstore backends")

	// Fluent builder returns same pointer
	assert.Same(t, err, result)
	assert.Equal(t, "Run: credstore backends", err.Hint)
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		code errors.Code
		want int
	}{
		{errors.CodeInvalidArgument, ExitUsage},
		{errors.CodeEncoding, ExitUsage},
		{errors.CodeNotInitialized, ExitConfigError},
		{errors.CodeAlreadyInitialized, ExitConfigError},
		{errors.CodeNotFound, ExitNotFound},
		{errors.CodeBackendUnavailable, ExitUnavailable},
		{errors.CodeUnknown, ExitGeneral},
		{errors.Code("SOMETHING_ELSE"), ExitGeneral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExitCodeFor(tc.code), tc.code)
	}
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	existing := NewCLIError(ExitUsage, "x")
	assert.Same(t, existing, FromError(existing))

	cliErr := FromError(errors.New(errors.CodeNotFound, "credential not found").WithOp("get_password"))
	require.NotNil(t, cliErr)
	assert.Equal(t, ExitNotFound, cliErr.ExitCode)
	assert.Equal(t, errors.CodeNotFound, cliErr.Code)
	assert.Equal(t, "get_password: NotFound: credential not found", cliErr.Message)
	// get commands have no flag to suggest
	assert.Empty(t, cliErr.Hint)

	cliErr = FromError(stderrors.New("boom"))
	assert.Equal(t, ExitGeneral, cliErr.ExitCode)
	assert.Equal(t, errors.CodeUnknown, cliErr.Code)
}

func TestExitWithError(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewWithWriters("plain", &out, &errOut)

	assert.Equal(t, ExitOK, ExitWithError(f, nil))
	assert.Empty(t, errOut.String())

	code := ExitWithError(f, errors.New(errors.CodeBackendUnavailable, "keyring locked"))
	assert.Equal(t, ExitUnavailable, code)
	assert.Contains(t, errOut.String(), "error: BackendUnavailable: keyring locked")
	assert.Contains(t, errOut.String(), "hint: ")

	errOut.Reset()
	code = ExitWithError(f, &CLIError{ExitCode: ExitNotFound})
	assert.Equal(t, ExitNotFound, code)
	assert.Empty(t, errOut.String())
}
