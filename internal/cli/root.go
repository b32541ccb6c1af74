// Package cli implements the siteledger command line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"siteledger/internal/blob"
	"siteledger/internal/core"
	"siteledger/internal/rootstate"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	DataDir string
	Verbose bool
	Format  string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the siteledger CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "siteledger",
		Short: "Local-first project ledger for contracting businesses",
		Long: `siteledger manages projects, crews, invoices, and a dual-currency fund
ledger as plain JSON documents in a local directory you own.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; absence is not an error.
			_ = godotenv.Load()
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DataDir, "data", "", "storage root directory (default: remembered root, then ./siteledger-data)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewClientCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewFundCommand(opts))
	cmd.AddCommand(NewFileCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// slogAdapter bridges the default slog logger to the service logging surface.
type slogAdapter struct{}

func (slogAdapter) Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func (slogAdapter) Info(msg string, args ...any)  { slog.Info(msg, args...) }
func (slogAdapter) Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func (slogAdapter) Error(msg string, args ...any) { slog.Error(msg, args...) }

// resolveDataDir picks the storage root: explicit flag first, then the
// remembered root from a previous session.
func resolveDataDir(opts *RootOptions) string {
	if opts.DataDir != "" {
		return opts.DataDir
	}
	return rootstate.New("").Root()
}

// uploadsRoot keeps uploaded files next to the resource documents so one
// directory holds the whole ledger.
func uploadsRoot(dataDir string) string {
	if dataDir == "" {
		dataDir = "./siteledger-data"
	}
	return filepath.Join(dataDir, "uploads")
}

// openService builds a Service over the configured storage and upload
// backends. The caller must Close the returned store.
func openService(ctx context.Context, opts *RootOptions) (*core.Service, error) {
	dataDir := resolveDataDir(opts)
	store, err := core.OpenDocumentStore(ctx, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	uploads, err := blob.Open(ctx, uploadsRoot(dataDir))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open upload store: %w", err)
	}
	return core.NewService(store,
		core.WithLogger(slogAdapter{}),
		core.WithUploads(uploads)), nil
}
