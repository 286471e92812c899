// Package config provides application configuration with multi-source
// priority.
//
// Sources, highest priority first:
//  1. Environment variables (OCEANKIT_ prefix)
//  2. Config file (~/.oceankit/config.yaml)
//  3. Defaults
//
// Error handling uses sentinel errors so callers can test with errors.Is
// and wrap with fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates a nil configuration.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidLimit indicates a size or row limit out of range.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidTimeout indicates a non-positive delegate timeout.
	ErrInvalidTimeout = errors.New("invalid delegate timeout")

	// ErrInvalidRatio indicates a split ratio outside [0, 1].
	ErrInvalidRatio = errors.New("invalid split ratio")

	// ErrMissingPython indicates an empty python interpreter path.
	ErrMissingPython = errors.New("missing python interpreter")

	// ErrMissingAPIKey indicates the Gemini key is unset when required.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Defaults.
const (
	// DefaultMaxFileBytes rejects input files above 50 MB.
	DefaultMaxFileBytes int64 = 50 * 1024 * 1024

	// DefaultMaxRows caps tabular ingestion.
	DefaultMaxRows = 100_000

	// DefaultPreviewRows is the number of rows echoed in tool results.
	DefaultPreviewRows = 5

	// DefaultDelegateTimeout bounds one helper subprocess call.
	DefaultDelegateTimeout = 5 * time.Minute

	// DefaultPython is the interpreter used for the binary-format helper.
	DefaultPython = "python3"

	// DefaultHelperScript is the in-repo helper path, relative to the
	// working directory unless overridden.
	DefaultHelperScript = "scripts/oceandata_helper.py"

	// DefaultModel is the Gemini model used by the ask command.
	DefaultModel = "gemini-2.5-flash"
)

// Limits bounds input ingestion.
type Limits struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
	MaxRows      int   `mapstructure:"max_rows"`
	PreviewRows  int   `mapstructure:"preview_rows"`
}

// Delegate configures the Python subprocess adapter.
type Delegate struct {
	Python  string        `mapstructure:"python"`
	Script  string        `mapstructure:"script"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config stores application configuration.
type Config struct {
	// DataDirs are the roots tools may read from and write to, in
	// addition to the working directory.
	DataDirs []string `mapstructure:"data_dirs"`

	Limits   Limits   `mapstructure:"limits"`
	Delegate Delegate `mapstructure:"delegate"`

	// DefaultSplit ratios used when a split request omits them.
	TrainRatio float64 `mapstructure:"train_ratio"`
	ValRatio   float64 `mapstructure:"val_ratio"`
	TestRatio  float64 `mapstructure:"test_ratio"`

	// FieldAliases overrides the built-in canonical-parameter alias
	// table; keys are canonical names, values candidate field names.
	FieldAliases map[string][]string `mapstructure:"field_aliases"`

	// Gemini settings for the ask command.
	GeminiAPIKey string  `mapstructure:"gemini_api_key"`
	ModelName    string  `mapstructure:"model_name"`
	Temperature  float32 `mapstructure:"temperature"`

	// Log settings.
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration from defaults, the config file, and the
// environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("limits.max_file_bytes", DefaultMaxFileBytes)
	v.SetDefault("limits.max_rows", DefaultMaxRows)
	v.SetDefault("limits.preview_rows", DefaultPreviewRows)
	v.SetDefault("delegate.python", DefaultPython)
	v.SetDefault("delegate.script", DefaultHelperScript)
	v.SetDefault("delegate.timeout", DefaultDelegateTimeout)
	v.SetDefault("train_ratio", 0.7)
	v.SetDefault("val_ratio", 0.15)
	v.SetDefault("test_ratio", 0.15)
	v.SetDefault("model_name", DefaultModel)
	v.SetDefault("temperature", 0.2)
	v.SetDefault("log_level", "info")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".oceankit"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("OCEANKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// GEMINI_API_KEY is the conventional variable; the prefixed form wins.
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
