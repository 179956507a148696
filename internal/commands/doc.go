// Package commands provides the command-line interface for goback.
//
// It implements commands for:
//   - uploading an encrypted backup
//   - downloading and extracting a backup
//   - deleting a backup from the remote store
//
// Results are emitted as a single JSON object on stdout; progress and
// errors go to stderr.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/goback/internal/backup"
	"github.com/idelchi/goback/internal/config"
	"github.com/idelchi/goback/internal/logging"
	"github.com/idelchi/goback/internal/transport"
)

// bindFlags returns a PersistentPreRunE handler that binds the
// command's flags (local and inherited) into viper.
func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	return nil
}

// loadConfig unmarshals all bound flags and environment variables into
// a Config and validates it. Validation failures here abort before any
// operation starts.
func loadConfig() (*config.Config, error) {
	var cfg config.Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Files = strings.Fields(cfg.FilesRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// newService wires a backup service from the configuration.
func newService(cfg *config.Config) *backup.Service {
	logger := logging.New(cfg.Quiet)
	client := transport.New(cfg.BaseURL, cfg.TransferTimeout, cfg.DeleteTimeout)

	return backup.New(cfg, client, logger)
}

// printJSON writes the single JSON result object for a successful run.
func printJSON(w io.Writer, result any) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	fmt.Fprintln(w, string(out))

	return nil
}
