package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/recipebook/internal/config"
	"github.com/roach88/recipebook/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recipe book in a browser",
		Long: `Serve the recipe book as a web page.

The page shows the add/edit form and the recipe list. Every change is saved
and the page is rebuilt from the saved collection. The server runs until
interrupted.

Example:
  recipebook serve --listen 127.0.0.1:8080
  recipebook serve --db ./kitchen.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, config.KeyListen, "", "address to listen on (default 127.0.0.1:8080)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	s, err := openSession(ctx, cmd, opts.RootOptions)
	if err != nil {
		return formatter.Fail(err)
	}
	defer s.Close()
	slog.SetDefault(s.logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			s.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return formatter.Fail(WrapExitError(ExitCommandError, "failed to listen", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recipe book at http://%s\n", ln.Addr())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	srv := web.NewServer(s.book, s.logger)
	if err := srv.Serve(ctx, ln); err != nil {
		return formatter.Fail(WrapExitError(ExitFailure, "server error", err))
	}
	return nil
}
