package errors

// Code is the stable taxonomy kind carried by every credential-store error.
// Values are part of the wire contract: add, never rename.
type Code string

const (
	CodeInvalidArgument    Code = "InvalidArgument"
	CodeEncoding           Code = "EncodingError"
	CodeNotInitialized     Code = "NotInitialized"
	CodeAlreadyInitialized Code = "AlreadyInitialized"
	CodeNotFound           Code = "NotFound"
	CodeBackendUnavailable Code = "BackendUnavailable"
	CodeUnknown            Code = "Unknown"
)

// AllCodes returns every taxonomy code in declaration order.
func AllCodes() []Code {
	return []Code{
		CodeInvalidArgument,
		CodeEncoding,
		CodeNotInitialized,
		CodeAlreadyInitialized,
		CodeNotFound,
		CodeBackendUnavailable,
		CodeUnknown,
	}
}

// Valid reports whether c is one of the taxonomy codes.
func (c Code) Valid() bool {
	for _, known := range AllCodes() {
		if c == known {
			return true
		}
	}
	return false
}
