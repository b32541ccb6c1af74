package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewFileCommand creates the file command group for per-project uploads.
func NewFileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage uploaded project files",
	}
	cmd.AddCommand(newFileUploadCommand(rootOpts))
	cmd.AddCommand(newFileListCommand(rootOpts))
	cmd.AddCommand(newFileDeleteCommand(rootOpts))
	return cmd
}

func newFileUploadCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		project     string
		name        string
		contentType string
	)

	cmd := &cobra.Command{
		Use:           "upload <path>",
		Short:         "Upload a file into a project's folder",
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

			src, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()

			fileName := name
			if fileName == "" {
				fileName = filepath.Base(args[0])
			}
			meta, err := svc.UploadProjectFile(ctx, project, fileName, contentType, src)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, meta)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%d bytes) as %s\n", meta.FileName, meta.Size, meta.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project id (required)")
	cmd.Flags().StringVar(&name, "name", "", "stored file name (default: the source file name)")
	cmd.Flags().StringVar(&contentType, "content-type", "application/octet-stream", "MIME content type")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newFileListCommand(rootOpts *RootOptions) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List uploaded files",
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

			files, err := svc.ListProjectFiles(ctx, project)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd, files)
			}
			for _, m := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %8d  %s\n", m.ID, m.Size, m.FileName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "filter by project id")
	return cmd
}

func newFileDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <file-id>",
		Short:         "Delete an uploaded file and its metadata",
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

			ok, err := svc.DeleteProjectFile(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no file with id %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted file %s\n", args[0])
			return nil
		},
	}
}
