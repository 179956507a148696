package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewUploadCommand creates the upload subcommand.
func NewUploadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "upload --files \"path [path ...]\" [--password <p>]",
		Short:             "Encrypt files and upload them as a single backup",
		Args:              cobra.NoArgs,
		PersistentPreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if len(cfg.Files) == 0 {
				return errors.New("no files to back up")
			}

			descriptor, err := newService(cfg).Upload(cmd.Context(), cfg.Files, cfg.Password)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), descriptor)
		},
	}

	cmd.Flags().String("files", "", "Space-separated list of files to back up")
	cmd.Flags().String("password", "", "Encryption password (auto-generated if not provided)")

	cmd.MarkFlagRequired("files")

	return cmd
}
