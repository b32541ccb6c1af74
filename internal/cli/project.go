package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"siteledger/pkg/domain"
)

// NewProjectCommand creates the project command group.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectCreateCommand(rootOpts))
	cmd.AddCommand(newProjectListCommand(rootOpts))
	return cmd
}

func newProjectCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		budget   float64
		currency string
		address  string
		notes    string
	)

	cmd := &cobra.Command{
		Use:           "create <name>",
		Short:         "Create a project",
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

			p, err := svc.CreateProject(ctx, domain.Project{
				Name:     args[0],
				Budget:   budget,
				Currency: domain.Currency(currency),
				Address:  address,
				Notes:    notes,
			})
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().Float64Var(&budget, "budget", 0, "project budget")
	cmd.Flags().StringVar(&currency, "currency", "", "budget currency (usd|syp)")
	cmd.Flags().StringVar(&address, "address", "", "site address")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newProjectListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List projects",
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

			projects, err := svc.ListProjects(ctx)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, projects)
			}
			for _, p := range projects {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s  %s\n", p.ID, p.Status, p.Name)
			}
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
