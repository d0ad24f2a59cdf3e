package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/recipebook/internal/book"
	"github.com/roach88/recipebook/internal/config"
	"github.com/roach88/recipebook/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // explicit config file
	DB      string
	Key     string

	// IDs allows overriding the recipe ID generator (for testing).
	// If nil, defaults to book.UUIDv7Generator.
	IDs book.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

var (
	errConfig = errors.New("configuration error")
	errStore  = errors.New("store unavailable")
)

// NewRootCommand creates the root command for the recipebook CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipebook",
		Short: "Recipe Book - a local recipe collection",
		Long: `Keep a list of recipes in a local store.

Recipes have a title, a list of ingredients and instructions. The whole
collection is saved under one key after every change, and every view is
rebuilt from the saved collection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, config.KeyVerbose, "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ./recipebook.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.DB, config.KeyDB, "", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Key, config.KeyKey, "", "store key holding the collection")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// newLogger builds the text logger every command writes diagnostics to.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// session is an opened database with its loaded book.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	book   *book.Book
}

// openSession resolves configuration, opens the store and loads the book.
func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := config.Load(opts.Config, cmd.Flags())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", fmt.Errorf("%w: %w", errConfig, err))
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	logger.Debug("opening database", "path", cfg.DB)
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", fmt.Errorf("%w: %w", errStore, err))
	}

	ids := opts.IDs
	if ids == nil {
		ids = book.UUIDv7Generator{}
	}
	b := book.New(st,
		book.WithKey(cfg.Key),
		book.WithIDGenerator(ids),
		book.WithLogger(logger),
	)
	if err := b.Load(ctx); err != nil {
		_ = st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load recipes", fmt.Errorf("%w: %w", errStore, err))
	}

	return &session{cfg: cfg, logger: logger, store: st, book: b}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or a background one when
// the command is executed without a context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
