package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"siteledger/pkg/domain"
)

// NewClientCommand creates the client command group.
func NewClientCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(newClientCreateCommand(rootOpts))
	cmd.AddCommand(newClientListCommand(rootOpts))
	return cmd
}

func newClientCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		phone   string
		email   string
		address string
	)

	cmd := &cobra.Command{
		Use:           "create <name>",
		Short:         "Create a client",
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

			c, err := svc.CreateClient(ctx, domain.Client{
				Name:    args[0],
				Phone:   phone,
				Email:   email,
				Address: address,
			})
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created client %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&address, "address", "", "postal address")
	return cmd
}

func newClientListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List clients",
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

			clients, err := svc.ListClients(ctx)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, clients)
			}
			for _, c := range clients {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s  %s\n", c.ID, c.Name, c.Phone)
			}
			return nil
		},
	}
}
