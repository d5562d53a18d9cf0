package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
	"github.com/semmy-space/credstore/internal/keystore"
	"github.com/semmy-space/credstore/internal/output"
	"golang.org/x/term"
)

// stdin is swapped in tests
var stdin io.Reader = os.Stdin

// PasswordCmd holds password subcommands
type PasswordCmd struct {
	Set    PasswordSetCmd    `cmd:"" help:"Store a password"`
	Get    PasswordGetCmd    `cmd:"" help:"Print a stored password"`
	Delete PasswordDeleteCmd `cmd:"" help:"Remove a stored password"`
	Has    PasswordHasCmd    `cmd:"" help:"Report whether a password is stored"`
}

// PasswordSetCmd implements password set command
type PasswordSetCmd struct {
	Account string `arg:"" help:"Account the password belongs to"`
	Value   string `arg:"" optional:"" help:"Password text (prompted or read from stdin when omitted)"`
	Stdin   bool   `help:"Read the password from the first line of stdin"`
}

// Run executes the set command
func (cmd *PasswordSetCmd) Run(s *Session, g *Globals) error {
	value := cmd.Value
	if value == "" {
		var err error
		value, err = readPassword(cmd.Stdin, g)
		if err != nil {
			return err
		}
	}

	if err := s.Do(func(d *keystore.Dispatcher) error {
		return d.SetPassword(cmd.Account, value)
	}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Stored password for %s\n", cmd.Account)
	return nil
}

// readPassword prompts on a terminal, otherwise reads one line of stdin
func readPassword(fromStdin bool, g *Globals) (string, error) {
	if !fromStdin && g.Interactive() {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		if len(b) == 0 {
			return "", output.NewCLIError(output.ExitUsage, "empty password")
		}
		return string(b), nil
	}

	if !fromStdin && g.NoInput {
		return "", output.NewCLIError(output.ExitUsage, "password argument required with --no-input").
			WithHint("Pass the password as an argument or use --stdin")
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", output.NewCLIError(output.ExitUsage, "empty password on stdin")
	}
	return line, nil
}

// PasswordGetCmd implements password get command
type PasswordGetCmd struct {
	Account string `arg:"" help:"Account to look up"`
}

// Run executes the get command
func (cmd *PasswordGetCmd) Run(s *Session, g *Globals, fp *FormatterProvider) error {
	var value credential.Value
	if err := s.Do(func(d *keystore.Dispatcher) error {
		var err error
		value, err = d.Get(cmd.Account, credential.KindPassword)
		return err
	}); err != nil {
		return err
	}

	// JSON consumers get the tagged wire value
	if g.ResolvedOutput() == "json" {
		return fp.Formatter.Print(value)
	}
	text, _ := value.Text()
	return fp.Formatter.Print(text)
}

// PasswordDeleteCmd implements password delete command
type PasswordDeleteCmd struct {
	Account       string `arg:"" help:"Account to remove"`
	IgnoreMissing bool   `help:"Succeed when no password is stored" name:"ignore-missing"`
}

// Run executes the delete command
func (cmd *PasswordDeleteCmd) Run(s *Session) error {
	err := s.Do(func(d *keystore.Dispatcher) error {
		return d.DeletePassword(cmd.Account)
	})
	return finishDelete(err, cmd.IgnoreMissing, "password", cmd.Account)
}

// PasswordHasCmd implements password has command
type PasswordHasCmd struct {
	Account string `arg:"" help:"Account to check"`
	Quiet   bool   `help:"Print nothing; exit 4 when absent" short:"q"`
}

// Run executes the has command
func (cmd *PasswordHasCmd) Run(s *Session, fp *FormatterProvider) error {
	var found bool
	if err := s.Do(func(d *keystore.Dispatcher) error {
		var err error
		found, err = d.HasPassword(cmd.Account)
		return err
	}); err != nil {
		return err
	}
	return reportHas(fp, found, cmd.Quiet)
}

func finishDelete(err error, ignoreMissing bool, kind, account string) error {
	if err != nil {
		if !errors.Is(err, errors.CodeNotFound) {
			return err
		}
		if ignoreMissing {
			return nil
		}
		return output.FromError(err).
			WithHint("Use --ignore-missing to treat a missing " + kind + " as success")
	}
	fmt.Fprintf(os.Stderr, "Deleted %s for %s\n", kind, account)
	return nil
}

func reportHas(fp *FormatterProvider, found, quiet bool) error {
	if quiet {
		if !found {
			return &output.CLIError{ExitCode: output.ExitNotFound, Code: errors.CodeNotFound}
		}
		return nil
	}
	return fp.Formatter.Print(found)
}
