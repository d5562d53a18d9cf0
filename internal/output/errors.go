package output

import (
	"fmt"

	"github.com/semmy-space/credstore/internal/errors"
)

// Exit codes following sysexits.h convention
const (
	ExitOK          = 0  // Success
	ExitGeneral     = 1  // General or unclassified error
	ExitUsage       = 2  // Invalid usage / bad arguments / bad encoding
	ExitNotFound    = 4  // Credential not found
	ExitUnavailable = 75 // Secure storage unavailable (EX_TEMPFAIL from sysexits.h)
	ExitConfigError = 10 // Store not initialized or initialized for another service
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
	Code     errors.Code
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// ExitCodeFor maps a taxonomy code to a process exit code.
func ExitCodeFor(code errors.Code) int {
	switch code {
	case errors.CodeInvalidArgument, errors.CodeEncoding:
		return ExitUsage
	case errors.CodeNotInitialized, errors.CodeAlreadyInitialized:
		return ExitConfigError
	case errors.CodeNotFound:
		return ExitNotFound
	case errors.CodeBackendUnavailable:
		return ExitUnavailable
	default:
		return ExitGeneral
	}
}

// FromError converts any error into a CLIError carrying its taxonomy kind.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr, ok := err.(*CLIError); ok {
		return cliErr
	}

	code := errors.CodeOf(err)
	cliErr := &CLIError{
		ExitCode: ExitCodeFor(code),
		Message:  err.Error(),
		Code:     code,
	}
	switch code {
	case errors.CodeNotInitialized:
		cliErr.Hint = "Pass --service or run: credstore config set service_name YOUR_SERVICE"
	case errors.CodeBackendUnavailable:
		cliErr.Hint = "Unlock your keyring, pick another store with --backend, or retry with --retries"
	}
	return cliErr
}

// ExitWithError prints the error via the formatter. The os.Exit call
// stays in main.go.
func ExitWithError(formatter Formatter, err error) int {
	cliErr := FromError(err)
	if cliErr == nil {
		return ExitOK
	}
	// Silent failures carry only an exit code
	if cliErr.Message == "" && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	formatter.PrintError(cliErr)
	if cliErr.Hint != "" {
		formatter.PrintHint(cliErr.Hint)
	}
	if cliErr.ExitCode == 0 {
		return ExitGeneral
	}
	return cliErr.ExitCode
}

func (e *CLIError) typeName() string {
	if e.Code == "" {
		return fmt.Sprintf("exit_%d", e.ExitCode)
	}
	return string(e.Code)
}
