package cli

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/keystore"
	"github.com/semmy-space/credstore/internal/output"
)

// Secret encodings accepted on input and produced on output
const (
	encodingRaw    = "raw"
	encodingHex    = "hex"
	encodingBase64 = "base64"
)

// SecretCmd holds secret subcommands
type SecretCmd struct {
	Set    SecretSetCmd    `cmd:"" help:"Store a binary secret"`
	Get    SecretGetCmd    `cmd:"" help:"Print a stored secret"`
	Delete SecretDeleteCmd `cmd:"" help:"Remove a stored secret"`
	Has    SecretHasCmd    `cmd:"" help:"Report whether a secret is stored"`
}

// SecretSetCmd implements secret set command
type SecretSetCmd struct {
	Account  string `arg:"" help:"Account the secret belongs to"`
	File     string `help:"Read the secret from a file instead of stdin" short:"f" type:"existingfile" predictor:"file"`
	Encoding string `help:"Encoding of the input" default:"raw" enum:"raw,hex,base64" short:"e"`
}

// Run executes the set command
func (cmd *SecretSetCmd) Run(s *Session) error {
	var (
		in  []byte
		err error
	)
	if cmd.File != "" {
		in, err = os.ReadFile(cmd.File)
	} else {
		in, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}

	secret, err := decodeSecret(in, cmd.Encoding)
	if err != nil {
		return err
	}

	if err := s.Do(func(d *keystore.Dispatcher) error {
		return d.SetSecret(cmd.Account, secret)
	}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Stored %d byte secret for %s\n", len(secret), cmd.Account)
	return nil
}

// SecretGetCmd implements secret get command
type SecretGetCmd struct {
	Account  string `arg:"" help:"Account to look up"`
	Encoding string `help:"Encoding of the output" default:"base64" enum:"raw,hex,base64" short:"e"`
}

// Run executes the get command
func (cmd *SecretGetCmd) Run(ctx *kong.Context, s *Session, g *Globals, fp *FormatterProvider) error {
	var value credential.Value
	if err := s.Do(func(d *keystore.Dispatcher) error {
		var err error
		value, err = d.Get(cmd.Account, credential.KindSecret)
		return err
	}); err != nil {
		return err
	}

	// JSON consumers get the tagged wire value
	if g.ResolvedOutput() == "json" {
		return fp.Formatter.Print(value)
	}

	secret, _ := value.Bytes()
	if cmd.Encoding == encodingRaw {
		_, err := ctx.Stdout.Write(secret)
		return err
	}
	return fp.Formatter.Print(encodeSecret(secret, cmd.Encoding))
}

// SecretDeleteCmd implements secret delete command
type SecretDeleteCmd struct {
	Account       string `arg:"" help:"Account to remove"`
	IgnoreMissing bool   `help:"Succeed when no secret is stored" name:"ignore-missing"`
}

// Run executes the delete command
func (cmd *SecretDeleteCmd) Run(s *Session) error {
	err := s.Do(func(d *keystore.Dispatcher) error {
		return d.DeleteSecret(cmd.Account)
	})
	return finishDelete(err, cmd.IgnoreMissing, "secret", cmd.Account)
}

// SecretHasCmd implements secret has command
type SecretHasCmd struct {
	Account string `arg:"" help:"Account to check"`
	Quiet   bool   `help:"Print nothing; exit 4 when absent" short:"q"`
}

// Run executes the has command
func (cmd *SecretHasCmd) Run(s *Session, fp *FormatterProvider) error {
	var found bool
	if err := s.Do(func(d *keystore.Dispatcher) error {
		var err error
		found, err = d.HasSecret(cmd.Account)
		return err
	}); err != nil {
		return err
	}
	return reportHas(fp, found, cmd.Quiet)
}

// decodeSecret turns CLI input into secret bytes. Text encodings ignore
// surrounding whitespace; raw input is taken verbatim.
func decodeSecret(in []byte, encoding string) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch encoding {
	case encodingHex:
		out, err = hex.DecodeString(strings.TrimSpace(string(in)))
	case encodingBase64:
		out, err = base64.StdEncoding.DecodeString(strings.TrimSpace(string(in)))
	default:
		out = in
	}
	if err != nil {
		return nil, output.NewCLIError(output.ExitUsage, fmt.Sprintf("invalid %s input: %v", encoding, err))
	}
	return out, nil
}

func encodeSecret(b []byte, encoding string) string {
	if encoding == encodingHex {
		return hex.EncodeToString(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}
