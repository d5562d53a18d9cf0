package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/semmy-space/credstore/internal/command"
)

// ServeCmd exposes the store to a host process over stdin/stdout
type ServeCmd struct {
	Init bool `help:"Initialize with the configured service before reading commands"`
}

// Run executes the serve command
func (cmd *ServeCmd) Run(s *Session, log *slog.Logger) error {
	if cmd.Init {
		if err := s.Ready(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("serving commands", "commands", len(command.Commands()), "service", s.Service)
	return command.Serve(ctx, s.Dispatcher, stdin, os.Stdout, log)
}
