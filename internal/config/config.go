// Package config holds the runtime configuration shared by all
// subcommands. Former module-wide constants (base URL, size ceiling,
// password length, timeouts) live here so tests can substitute a local
// endpoint and smaller ceilings.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults matching the production remote store.
const (
	DefaultBaseURL         = "https://soul-upload.com"
	DefaultMaxSize         = 20 * 1024 * 1024
	DefaultPasswordLength  = 32
	DefaultTransferTimeout = 5 * time.Minute
	DefaultDeleteTimeout   = 30 * time.Second
)

// Config is populated from flags and environment via viper.
type Config struct {
	// Common flags
	BaseURL         string        `mapstructure:"base-url" validate:"required,url"`
	MaxSize         int64         `mapstructure:"max-size" validate:"required,gt=0"`
	PasswordLength  int           `mapstructure:"password-length" validate:"required,gte=8"`
	TransferTimeout time.Duration `mapstructure:"transfer-timeout" validate:"required,gt=0"`
	DeleteTimeout   time.Duration `mapstructure:"delete-timeout" validate:"required,gt=0"`
	TempDir         string        `mapstructure:"temp-dir"`
	Quiet           bool          `mapstructure:"quiet"`

	// Command-specific flags
	FilesRaw  string `mapstructure:"files"`
	Password  string `mapstructure:"password"`
	BackupID  string `mapstructure:"backup-id"`
	OutputDir string `mapstructure:"output-dir"`

	// Files holds the resolved upload paths, split from FilesRaw.
	Files []string `mapstructure:"-"`
}

// Validate validates the configuration against the struct tags.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}
