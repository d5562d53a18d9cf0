// Package command adapts untyped host calls, a command name plus a JSON
// argument bag, onto the typed dispatcher operations and encodes replies.
package command

import (
	"encoding/json"
	"fmt"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
	"github.com/semmy-space/credstore/internal/keystore"
)

// Call is one inbound request.
type Call struct {
	ID   json.RawMessage `json:"id,omitempty"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Reply is the encoded outcome of a Call. Exactly one of Data or Error is
// meaningful, selected by OK.
type Reply struct {
	ID    json.RawMessage `json:"id,omitempty"`
	OK    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Error *ErrorReply     `json:"error,omitempty"`
}

// ErrorReply carries the taxonomy kind and a human-readable message.
type ErrorReply struct {
	Type    errors.Code `json:"type"`
	Message string      `json:"message"`
}

// args is the union of every command's argument bag.
type args struct {
	ServiceName string                `json:"serviceName"`
	Username    string                `json:"username"`
	Password    *string               `json:"password"`
	Secret      *credential.ByteArray `json:"secret"`
	Kind        string                `json:"kind"`
}

type handler func(d *keystore.Dispatcher, a args) (any, error)

var handlers = map[string]handler{
	"initialize":         initialize,
	"initialize_keyring": initialize,
	"set_password": func(d *keystore.Dispatcher, a args) (any, error) {
		if a.Password == nil {
			return nil, missing("password")
		}
		return nil, d.SetPassword(a.Username, *a.Password)
	},
	"get_password": func(d *keystore.Dispatcher, a args) (any, error) {
		return d.GetPassword(a.Username)
	},
	"delete_password": func(d *keystore.Dispatcher, a args) (any, error) {
		return nil, d.DeletePassword(a.Username)
	},
	"has_password": func(d *keystore.Dispatcher, a args) (any, error) {
		return d.HasPassword(a.Username)
	},
	"set_secret": func(d *keystore.Dispatcher, a args) (any, error) {
		if a.Secret == nil {
			return nil, missing("secret")
		}
		return nil, d.SetSecret(a.Username, *a.Secret)
	},
	"get_secret": func(d *keystore.Dispatcher, a args) (any, error) {
		data, err := d.GetSecret(a.Username)
		if err != nil {
			return nil, err
		}
		return credential.ByteArray(data), nil
	},
	"delete_secret": func(d *keystore.Dispatcher, a args) (any, error) {
		return nil, d.DeleteSecret(a.Username)
	},
	"has_secret": func(d *keystore.Dispatcher, a args) (any, error) {
		return d.HasSecret(a.Username)
	},
	"get_credential": func(d *keystore.Dispatcher, a args) (any, error) {
		kind, err := credential.ParseKind(a.Kind)
		if err != nil {
			return nil, err
		}
		return d.Get(a.Username, kind)
	},
}

func initialize(d *keystore.Dispatcher, a args) (any, error) {
	return nil, d.Initialize(a.ServiceName)
}

func missing(name string) error {
	return errors.Newf(errors.CodeInvalidArgument, "missing argument %q", name)
}

// Commands returns the accepted command names.
func Commands() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	return names
}

// Handle runs one call against d and always returns a reply.
func Handle(d *keystore.Dispatcher, call Call) Reply {
	reply := Reply{ID: call.ID}

	h, ok := handlers[call.Cmd]
	if !ok {
		reply.Error = errorReply(errors.Newf(errors.CodeInvalidArgument, "unknown command %q", call.Cmd))
		return reply
	}

	var a args
	if len(call.Args) > 0 {
		if err := json.Unmarshal(call.Args, &a); err != nil {
			reply.Error = errorReply(err)
			return reply
		}
	}

	data, err := h(d, a)
	if err != nil {
		reply.Error = errorReply(err)
		return reply
	}
	reply.OK = true
	reply.Data = data
	return reply
}

func errorReply(err error) *ErrorReply {
	e, ok := errors.As(err)
	if !ok {
		// only argument decoding produces foreign errors
		e = errors.Wrap(errors.CodeInvalidArgument, err.Error(), err)
	}
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return &ErrorReply{Type: e.Code, Message: msg}
}
