package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/semmy-space/credstore/internal/config"
	"github.com/semmy-space/credstore/internal/keystore"
	ilog "github.com/semmy-space/credstore/internal/log"
	"github.com/semmy-space/credstore/internal/output"
	"github.com/semmy-space/credstore/internal/secrets"
	"github.com/willabides/kongplete"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure
type CLI struct {
	Globals

	Password   PasswordCmd                  `cmd:"" help:"Store and read text passwords"`
	Secret     SecretCmd                    `cmd:"" help:"Store and read binary secrets"`
	Backends   BackendsCmd                  `cmd:"" help:"List storage backends available on this host"`
	Serve      ServeCmd                     `cmd:"" help:"Answer line-delimited JSON commands on stdin"`
	Config     ConfigCmd                    `cmd:"" help:"Configuration commands"`
	Schema     SchemaCmd                    `cmd:"" help:"Print the command tree as JSON" hidden:""`
	Completion kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
	Version    VersionCmd                   `cmd:"" help:"Show version information"`
}

// BeforeApply hook runs before any command execution
// It loads config, resolves service and backend, creates the formatter and
// the store session, and binds them
func (c *CLI) BeforeApply(ctx *kong.Context) error {
	// Load config from XDG path (returns defaults if missing)
	cfg, err := config.Load()
	if err != nil {
		return output.NewCLIError(output.ExitConfigError, err.Error()).
			WithHint("Fix or remove " + config.ConfigPath())
	}

	// Output: CLI flag > config > auto
	if c.Output == "auto" && cfg.DefaultOutput != "" {
		c.Output = cfg.DefaultOutput
	}

	formatter := &FormatterProvider{
		Formatter: output.New(c.ResolvedOutput()),
	}

	logger := ilog.New(os.Stderr, c.Verbose)
	slog.SetDefault(logger)

	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)
	ctx.Bind(logger)
	ctx.Bind(newSession(cfg, &c.Globals, logger))

	return nil
}

// Session carries the dispatcher and the resolved service for one
// invocation. The store is opened lazily so config and backends commands
// never touch a keyring.
type Session struct {
	Dispatcher *keystore.Dispatcher
	Service    string
	Retries    int

	log *slog.Logger
}

func newSession(cfg *config.Config, g *Globals, log *slog.Logger) *Session {
	// Service: CLI flag/env > config
	service := g.Service
	if service == "" {
		service = cfg.ServiceName
	}

	// Backend: CLI flag/env > config > auto
	backend := g.Backend
	if backend == "" {
		backend = cfg.Backend
	}

	open := func(name string) (secrets.Backend, error) {
		resolved := *cfg
		resolved.Backend = backend
		opts, err := resolved.BackendOptions()
		if err != nil {
			return nil, err
		}
		opts.Logger = log
		return secrets.Open(name, opts)
	}

	return &Session{
		Dispatcher: keystore.New(open, log),
		Service:    service,
		Retries:    g.Retries,
		log:        log,
	}
}

// Ready initializes the store for the session's service.
func (s *Session) Ready() error {
	if s.Service == "" {
		return output.NewCLIError(output.ExitConfigError, "no service name configured").
			WithHint("Pass --service, set CREDSTORE_SERVICE, or run: credstore config set service_name YOUR_SERVICE")
	}
	return retry(s.Retries, s.log, func() error {
		return s.Dispatcher.Initialize(s.Service)
	})
}

// Do initializes the store then runs fn under the session's retry policy.
func (s *Session) Do(fn func(d *keystore.Dispatcher) error) error {
	if err := s.Ready(); err != nil {
		return err
	}
	return retry(s.Retries, s.log, func() error {
		return fn(s.Dispatcher)
	})
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	version := ctx.Model.Vars()["version"]
	fmt.Fprintln(ctx.Stdout, "credstore version "+version)
	return nil
}
