package credential

import (
	"encoding/json"

	"github.com/semmy-space/credstore/internal/errors"
)

// wireValue is the transport shape:
// {"type": "Password", "data": "text"} or {"type": "Secret", "data": [1, 2, 255]}.
type wireValue struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes secrets as an array of byte values, not base64.
func (v Value) MarshalJSON() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch v.kind {
	case KindPassword:
		data, err = json.Marshal(v.text)
	case KindSecret:
		data, err = json.Marshal(ByteArray(v.data))
	default:
		return nil, errors.New(errors.CodeInvalidArgument, "cannot encode credential value without kind")
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireValue{Type: v.kind.WireName(), Data: data})
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var w wireValue
	if err := json.Unmarshal(b, &w); err != nil {
		return errors.Wrap(errors.CodeInvalidArgument, "malformed credential value", err)
	}
	switch w.Type {
	case "Password":
		var text string
		if err := json.Unmarshal(w.Data, &text); err != nil {
			return errors.Wrap(errors.CodeInvalidArgument, "password data must be a string", err)
		}
		pv, err := Password(text)
		if err != nil {
			return err
		}
		*v = pv
	case "Secret":
		var arr ByteArray
		if err := json.Unmarshal(w.Data, &arr); err != nil {
			return err
		}
		*v = Secret(arr)
	default:
		return errors.Newf(errors.CodeInvalidArgument, "unknown credential type %q", w.Type)
	}
	return nil
}

// ByteArray is a byte slice that travels as a JSON array of numbers
// instead of a base64 string.
type ByteArray []byte

func (a ByteArray) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(a))
	for i, b := range a {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

func (a *ByteArray) UnmarshalJSON(b []byte) error {
	var ints []int
	if err := json.Unmarshal(b, &ints); err != nil {
		return errors.Wrap(errors.CodeInvalidArgument, "secret data must be an array of byte values", err)
	}
	out := make([]byte, len(ints))
	for i, n := range ints {
		if n < 0 || n > 255 {
			return errors.Newf(errors.CodeInvalidArgument, "secret byte %d out of range: %d", i, n)
		}
		out[i] = byte(n)
	}
	*a = out
	return nil
}
