// =============================================================================
// DCR-PAXLIST Merger - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Settings come from three
// layers, each overriding the previous one:
//   1. Built-in defaults (applyDefaults)
//   2. The YAML config file (config.yaml by default, optional)
//   3. DCRMERGE_* environment variables, optionally seeded from a .env file
//
// Command-line flags are applied on top by the cmd package.
//
// EXAMPLE config.yaml:
//   dcr_header_row: 1
//   apply_formatting: true
//   styling_store: tempfile
//   output_dir: ./output
//   output_name_format: "DCR_Updated_{timestamp}.xlsx"
//   log_level: info
//   server_addr: ":8080"
//   max_upload_mb: 32
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/ginjaninja78/dcr-paxlist-merger/internal/errors"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Styling store names accepted by StylingStore.
const (
	StoreTempFile = "tempfile"
	StoreMemory   = "memory"
)

// MaxHeaderRow is the largest DCR header row offset a caller may select.
const MaxHeaderRow = 2

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// MERGE SETTINGS
	// =========================================================================

	// DCRHeaderRow is the 0-based row holding the DCR column headers.
	// Valid values: 0, 1, 2
	// Default: 1 (the second row)
	DCRHeaderRow int `yaml:"dcr_header_row"`

	// ApplyFormatting enables the styling pass over the output workbook.
	// Default: true
	ApplyFormatting *bool `yaml:"apply_formatting"`

	// StylingStore selects where the styling pass materializes the workbook.
	// Valid values: "tempfile", "memory"
	// Default: "tempfile"
	StylingStore string `yaml:"styling_store"`

	// TempDir is the directory for the transient styling file.
	// Default: "" (the OS temp directory)
	TempDir string `yaml:"temp_dir"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where the merge command writes result workbooks.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputNameFormat is the result file name pattern.
	// Placeholders: {timestamp}, {date}, {time}, {uuid}
	// Default: "DCR_Updated_{timestamp}.xlsx"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// ServerAddr is the listen address of the serve command.
	// Default: ":8080"
	ServerAddr string `yaml:"server_addr"`

	// MaxUploadMB caps the size of one multipart merge request.
	// Default: 32
	MaxUploadMB int `yaml:"max_upload_mb"`
}

// FormattingEnabled reports the effective ApplyFormatting value.
func (c *Config) FormattingEnabled() bool {
	return c.ApplyFormatting == nil || *c.ApplyFormatting
}

// SetFormatting overrides ApplyFormatting.
func (c *Config) SetFormatting(enabled bool) {
	c.ApplyFormatting = &enabled
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{DCRHeaderRow: -1}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file and the environment.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. An empty path, or a path that
//     does not exist when optional is true, means "defaults only".
//   - optional: Whether a missing file is acceptable.
//
// RETURNS:
//   - A pointer to the validated Config struct.
//   - An error if the file cannot be parsed or a value is invalid.
func Load(configPath string, optional bool) (*Config, error) {
	cfg := &Config{DCRHeaderRow: -1}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, apperrors.Wrap(apperrors.ConfigInvalid(err.Error()), "failed to parse config file")
			}
		case os.IsNotExist(err) && optional:
			// Fall through to defaults.
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// .env is a convenience for local runs; its absence is not an error.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, apperrors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.DCRHeaderRow < 0 {
		cfg.DCRHeaderRow = 1
	}
	if cfg.ApplyFormatting == nil {
		cfg.SetFormatting(true)
	}
	if cfg.StylingStore == "" {
		cfg.StylingStore = StoreTempFile
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "DCR_Updated_{timestamp}.xlsx"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = 32
	}
}

// envPrefix namespaces every environment override.
const envPrefix = "DCRMERGE_"

// applyEnv overlays DCRMERGE_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	if v, ok := lookupEnv("DCR_HEADER_ROW"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.ConfigInvalid(fmt.Sprintf("%sDCR_HEADER_ROW must be an integer, got %q", envPrefix, v))
		}
		cfg.DCRHeaderRow = n
	}
	if v, ok := lookupEnv("APPLY_FORMATTING"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperrors.ConfigInvalid(fmt.Sprintf("%sAPPLY_FORMATTING must be a boolean, got %q", envPrefix, v))
		}
		cfg.SetFormatting(b)
	}
	if v, ok := lookupEnv("MAX_UPLOAD_MB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.ConfigInvalid(fmt.Sprintf("%sMAX_UPLOAD_MB must be an integer, got %q", envPrefix, v))
		}
		cfg.MaxUploadMB = n
	}

	strOverrides := map[string]*string{
		"STYLING_STORE":      &cfg.StylingStore,
		"TEMP_DIR":           &cfg.TempDir,
		"OUTPUT_DIR":         &cfg.OutputDir,
		"OUTPUT_NAME_FORMAT": &cfg.OutputNameFormat,
		"LOG_LEVEL":          &cfg.LogLevel,
		"SERVER_ADDR":        &cfg.ServerAddr,
	}
	for key, dst := range strOverrides {
		if v, ok := lookupEnv(key); ok {
			*dst = v
		}
	}

	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Validate checks every setting against its allowed values.
func Validate(cfg *Config) error {
	if err := ValidateHeaderRow(cfg.DCRHeaderRow); err != nil {
		return err
	}

	switch cfg.StylingStore {
	case StoreTempFile, StoreMemory:
	default:
		return apperrors.ConfigInvalid(fmt.Sprintf("styling_store must be %q or %q, got %q", StoreTempFile, StoreMemory, cfg.StylingStore))
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.ConfigInvalid(fmt.Sprintf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}

	if cfg.MaxUploadMB <= 0 {
		return apperrors.ConfigInvalid("max_upload_mb must be positive")
	}

	return nil
}

// ValidateHeaderRow checks a caller-selected DCR header row offset.
func ValidateHeaderRow(row int) error {
	if row < 0 || row > MaxHeaderRow {
		return apperrors.ConfigInvalid(fmt.Sprintf("dcr_header_row must be between 0 and %d, got %d", MaxHeaderRow, row))
	}
	return nil
}
