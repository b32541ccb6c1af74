package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"siteledger/pkg/domain"
)

type resourceStatus struct {
	Resource string `json:"resource"`
	File     string `json:"file"`
	Present  bool   `json:"present"`
	Bytes    int    `json:"bytes"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show the state of every resource document",
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

			statuses := make([]resourceStatus, 0, len(domain.Resources()))
			for _, res := range domain.Resources() {
				data, found, err := svc.Store().Read(ctx, res)
				if err != nil {
					return fmt.Errorf("read %s: %w", res, err)
				}
				statuses = append(statuses, resourceStatus{
					Resource: string(res),
					File:     res.FileName(),
					Present:  found,
					Bytes:    len(data),
				})
			}

			if rootOpts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}
			for _, st := range statuses {
				mark := "missing"
				if st.Present {
					mark = fmt.Sprintf("%d bytes", st.Bytes)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", st.File, mark)
			}
			return nil
		},
	}
}
