package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"siteledger/internal/core"
)

// NewBackupCommand creates the backup command group.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import full-snapshot bundles",
	}
	cmd.AddCommand(newBackupExportCommand(rootOpts))
	cmd.AddCommand(newBackupImportCommand(rootOpts))
	return cmd
}

func newBackupExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "export <file>",
		Short:         "Write a snapshot of every resource to one JSON file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := openService(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Store().Close() }()

			bundle, err := svc.ExportBundle(ctx)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return fmt.Errorf("encode bundle: %w", err)
			}
			if err := os.WriteFile(args[0], append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write bundle: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d resources to %s\n", len(bundle), args[0])
			return nil
		},
	}
}

func newBackupImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "import <file>",
		Short:         "Restore resource documents from a bundle file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read bundle: %w", err)
			}
			var bundle core.Bundle
			if err := json.Unmarshal(raw, &bundle); err != nil {
				return fmt.Errorf("decode bundle: %w", err)
			}

			ctx := cmd.Context()
			svc, err := openService(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Store().Close() }()

			result, err := svc.RestoreBundle(ctx, bundle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d resources, skipped %d\n", len(result.Restored), len(result.Skipped))
			return nil
		},
	}
}
