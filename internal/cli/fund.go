package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"siteledger/pkg/domain"
)

// NewFundCommand creates the fund command group.
func NewFundCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Manage a project's dual-currency fund ledger",
	}
	cmd.AddCommand(newFundAddCommand(rootOpts))
	cmd.AddCommand(newFundBalanceCommand(rootOpts))
	return cmd
}

func newFundAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		project  string
		kind     string
		currency string
		note     string
	)

	cmd := &cobra.Command{
		Use:           "add <amount>",
		Short:         "Record a fund deposit or expense",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[0], "%f", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			ctx := cmd.Context()
			svc, err := openService(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Store().Close() }()

			tx, err := svc.AddFundTransaction(ctx, domain.FundTransaction{
				ProjectID: project,
				Kind:      domain.FundKind(kind),
				Currency:  domain.Currency(currency),
				Amount:    amount,
				Note:      note,
			})
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, tx)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s of %.2f %s (%s)\n", tx.Kind, tx.Amount, tx.Currency, tx.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project id (required)")
	cmd.Flags().StringVar(&kind, "kind", "deposit", "entry kind (deposit|expense)")
	cmd.Flags().StringVar(&currency, "currency", "usd", "entry currency (usd|syp)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newFundBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:           "balance",
		Short:         "Show a project's fund balance per currency",
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

			balance, err := svc.FundBalance(ctx, project)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, balance)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "usd: %.2f\nsyp: %.2f\n", balance.USD, balance.SYP)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project id (required)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
