package commands

import (
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete subcommand.
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "delete --backup-id <id>",
		Short:             "Delete a backup from the remote store",
		Args:              cobra.NoArgs,
		PersistentPreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result, err := newService(cfg).Delete(cmd.Context(), cfg.BackupID)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().String("backup-id", "", "ID of the backup to delete")

	cmd.MarkFlagRequired("backup-id")

	return cmd
}
