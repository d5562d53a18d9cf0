package errors

// Classifier maps a backend-native error to a taxonomy code. Returning ""
// means the classifier does not recognize the error.
type Classifier func(error) Code

// Normalize folds err into the taxonomy. It is total: errors already in the
// taxonomy keep their code, recognized native errors take the classifier's
// code, anything else becomes CodeUnknown carrying the raw native message.
func Normalize(op string, err error, classify Classifier) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		if e.Op == "" {
			return e.WithOp(op)
		}
		return e
	}

	code := CodeUnknown
	if classify != nil {
		if c := classify(err); c.Valid() {
			code = c
		}
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: messageFor(code, err),
		cause:   err,
	}
}

func messageFor(code Code, err error) string {
	switch code {
	case CodeNotFound:
		return "credential not found"
	case CodeBackendUnavailable:
		return "secure storage unavailable"
	case CodeEncoding:
		return "credential encoding failure"
	case CodeInvalidArgument:
		return "invalid argument"
	default:
		return err.Error()
	}
}

// Chain tries each classifier in order and returns the first match.
func Chain(classifiers ...Classifier) Classifier {
	return func(err error) Code {
		for _, c := range classifiers {
			if c == nil {
				continue
			}
			if code := c(err); code != "" {
				return code
			}
		}
		return ""
	}
}
