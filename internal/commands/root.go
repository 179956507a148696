package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/goback/internal/config"
)

// NewRootCommand creates the root command with the shared flag set.
func NewRootCommand(version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "goback [flags] command [flags]"
	root.Short = "Encrypted backup transfer utility"
	root.Long = `Encrypts a set of local files into a single archive and transfers it
to a remote store, and reverses the process on retrieval.
Each backup is encrypted under a fresh password; passwords are never
stored remotely and must be kept by the caller.`
	root.SilenceErrors = true
	root.SilenceUsage = true

	root.PersistentFlags().String("base-url", config.DefaultBaseURL, "Base URL of the remote backup store")
	root.PersistentFlags().Int64("max-size", config.DefaultMaxSize, "Maximum encrypted backup size in bytes")
	root.PersistentFlags().Int("password-length", config.DefaultPasswordLength, "Length of auto-generated passwords")
	root.PersistentFlags().Duration("transfer-timeout", config.DefaultTransferTimeout, "Timeout for uploads and downloads")
	root.PersistentFlags().Duration("delete-timeout", config.DefaultDeleteTimeout, "Timeout for deletions")
	root.PersistentFlags().String("temp-dir", "", "Directory for temporary artifacts (system temp dir if empty)")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")

	root.AddCommand(NewUploadCommand(), NewDownloadCommand(), NewDeleteCommand())

	return root
}

// Execute runs the CLI and returns any error for the caller to render.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}
