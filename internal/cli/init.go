package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"siteledger/internal/rootstate"
	"siteledger/pkg/domain"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the resource documents in the storage root",
		Long: `Create every resource document with its default content in the storage
root. Documents that already exist are left untouched, so running init on a
populated root is safe.

Example:
  siteledger init --data ./siteledger-data`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := openService(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Store().Close() }()

			if err := svc.EnsureResources(ctx); err != nil {
				return fmt.Errorf("ensure resources: %w", err)
			}
			if remember && rootOpts.DataDir != "" {
				rootstate.New("").SaveRoot(rootOpts.DataDir)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %d resources\n", len(domain.Resources()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remember, "remember", true, "remember the storage root for future sessions")
	return cmd
}
