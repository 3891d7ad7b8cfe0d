package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds everything the binary needs at startup. Precedence, low
// to high: flag defaults, YAML config file, JOBTRACK_* environment
// variables, explicitly set flags.
type Config struct {
	ListenAddr     string `koanf:"listen_addr" validate:"required,hostname_port"`
	DataDir        string `koanf:"data_dir" validate:"required"`
	BackupOnImport bool   `koanf:"backup_on_import"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes" validate:"gt=0"`
}

// Flags registers the command-line flags on the given set. Call before
// parsing, then hand the parsed set to Load.
func Flags(f *pflag.FlagSet) {
	f.String("config", "", "Path to an optional YAML config file")
	f.String("listen-addr", "localhost:8080", "Address the web UI listens on")
	f.String("data-dir", "data", "Directory holding the dataset CSV files")
	f.Bool("backup-on-import", true, "Commit a git snapshot of the data directory after imports")
	f.Int64("max-upload-bytes", 10<<20, "Upload size limit for imported files")
}

// Load assembles the configuration from all sources and validates it.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if _, err := os.Stat("jobtrack.yml"); err == nil {
		if err := k.Load(file.Provider("jobtrack.yml"), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load jobtrack.yml: %w", err)
		}
	}

	if err := k.Load(env.Provider("JOBTRACK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "JOBTRACK_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flag names use dashes, config keys use underscores.
	if err := k.Load(posflag.ProviderWithValue(f, ".", k, func(key, value string) (string, interface{}) {
		return strings.ReplaceAll(key, "-", "_"), value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
