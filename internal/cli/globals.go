package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	Service string `help:"Service name that namespaces stored credentials" short:"s" env:"CREDSTORE_SERVICE"`
	Backend string `help:"Storage backend" default:"" enum:"auto,keychain,wincred,secret-service,kwallet,pass,keyctl,file,system,memory," env:"CREDSTORE_BACKEND"`
	Output  string `help:"Output format" default:"auto" enum:"json,plain,rich,auto" short:"o" env:"CREDSTORE_OUTPUT"`
	Verbose bool   `help:"Verbose output" short:"v" env:"CREDSTORE_VERBOSE"`
	Retries int    `help:"Retry a temporarily unavailable backend this many times" default:"0" env:"CREDSTORE_RETRIES"`
	NoInput bool   `help:"Disable interactive prompts (fail instead)" env:"CREDSTORE_NO_INPUT"`
}

// ResolvedOutput returns the effective output mode
// "auto" detects TTY: if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput() string {
	if g.Output != "auto" {
		return g.Output
	}

	// Detect if stdout is a TTY
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}

// Interactive reports whether prompts may be shown on stdin.
func (g *Globals) Interactive() bool {
	return !g.NoInput && term.IsTerminal(int(os.Stdin.Fd()))
}
