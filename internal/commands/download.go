package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// downloadResult is the JSON object printed after a successful restore.
type downloadResult struct {
	Success        bool     `json:"success"`
	ExtractedFiles []string `json:"extractedFiles"`
	OutputDir      string   `json:"outputDir"`
}

// NewDownloadCommand creates the download subcommand.
func NewDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "download --backup-id <id> --password <p> [--output-dir <dir>]",
		Short:             "Download, decrypt and extract a backup",
		Args:              cobra.NoArgs,
		PersistentPreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			extracted, err := newService(cfg).Download(cmd.Context(), cfg.BackupID, cfg.Password, cfg.OutputDir)
			if err != nil {
				return err
			}

			outputDir, err := filepath.Abs(cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("resolving output directory: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), downloadResult{
				Success:        true,
				ExtractedFiles: extracted,
				OutputDir:      outputDir,
			})
		},
	}

	cmd.Flags().String("backup-id", "", "ID of the backup to download")
	cmd.Flags().String("password", "", "Decryption password")
	cmd.Flags().String("output-dir", ".", "Directory to extract files to")

	cmd.MarkFlagRequired("backup-id")
	cmd.MarkFlagRequired("password")

	return cmd
}
