// Package config loads cohrank settings from an optional YAML file and
// COHRANK_* environment variables. Environment variables take precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for a cohrank run.
type Config struct {
	// Scoring
	InvertedMetrics []string `koanf:"inverted_metrics"`
	OutOfRange      string   `koanf:"out_of_range"` // clamp or reject
	TieBreak        string   `koanf:"tie_break"`    // stable or id

	// Reliability filter
	ReliabilityK float64 `koanf:"reliability_k"`

	// Combiner
	SkipMissing bool `koanf:"skip_missing"`

	// Execution
	Workers        int `koanf:"workers"`
	TokenCacheSize int `koanf:"token_cache_size"`

	Log LogConfig `koanf:"log"`
	DB  DBConfig  `koanf:"db"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// DBConfig holds the SurrealDB publishing target.
type DBConfig struct {
	URL       string `koanf:"url"`
	Namespace string `koanf:"namespace"`
	Database  string `koanf:"database"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
}

// Default values.
const (
	DefaultReliabilityK   = 0.31
	DefaultOutOfRange     = "clamp"
	DefaultTieBreak       = "stable"
	DefaultWorkers        = 4
	DefaultTokenCacheSize = 10000
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultDBURL          = "ws://localhost:8000/rpc"
	DefaultDBNamespace    = "cohrank"
	DefaultDBDatabase     = "cohrank"
)

// DefaultInvertedMetrics mirrors the lack-of-cohesion metric family.
var DefaultInvertedMetrics = []string{"LCOM", "LCOM5"}

// Configuration validation errors.
var (
	ErrInvalidReliabilityK = errors.New("reliability_k must be greater than zero")
	ErrInvalidWorkers      = errors.New("workers must be at least 1")
	ErrInvalidTieBreak     = errors.New("tie_break must be stable or id")
	ErrInvalidOutOfRange   = errors.New("out_of_range must be clamp or reject")
	ErrInvalidLogFormat    = errors.New("log.format must be json or console")
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		InvertedMetrics: append([]string(nil), DefaultInvertedMetrics...),
		OutOfRange:      DefaultOutOfRange,
		TieBreak:        DefaultTieBreak,
		ReliabilityK:    DefaultReliabilityK,
		Workers:         DefaultWorkers,
		TokenCacheSize:  DefaultTokenCacheSize,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		DB: DBConfig{
			URL:       DefaultDBURL,
			Namespace: DefaultDBNamespace,
			Database:  DefaultDBDatabase,
		},
	}
}

// Load reads configuration from an optional YAML file and the environment.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and cannot be loaded, only that error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	cfg := Default()

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, []error{fmt.Errorf("failed to decode config file %s: %w", configFilePath, err)}
		}
		if k.Exists("inverted_metrics") {
			cfg.InvertedMetrics = k.Strings("inverted_metrics")
		}
	}

	var loadErrs []error
	applyEnv(cfg, &loadErrs)

	errs := cfg.Validate()
	return cfg, append(loadErrs, errs...)
}

func applyEnv(cfg *Config, errs *[]error) {
	if val := os.Getenv("COHRANK_INVERTED_METRICS"); val != "" {
		cfg.InvertedMetrics = splitList(val)
	}
	cfg.OutOfRange = getEnvOrDefault("COHRANK_OUT_OF_RANGE", cfg.OutOfRange)
	cfg.TieBreak = getEnvOrDefault("COHRANK_TIE_BREAK", cfg.TieBreak)
	cfg.Log.Level = getEnvOrDefault("COHRANK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvOrDefault("COHRANK_LOG_FORMAT", cfg.Log.Format)
	cfg.DB.URL = getEnvOrDefault("COHRANK_DB_URL", cfg.DB.URL)
	cfg.DB.Namespace = getEnvOrDefault("COHRANK_DB_NAMESPACE", cfg.DB.Namespace)
	cfg.DB.Database = getEnvOrDefault("COHRANK_DB_DATABASE", cfg.DB.Database)
	cfg.DB.Username = getEnvOrDefault("COHRANK_DB_USERNAME", cfg.DB.Username)
	cfg.DB.Password = getEnvOrDefault("COHRANK_DB_PASSWORD", cfg.DB.Password)

	if val := os.Getenv("COHRANK_RELIABILITY_K"); val != "" {
		k, err := strconv.ParseFloat(val, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("COHRANK_RELIABILITY_K must be a number: %w", err))
		} else {
			cfg.ReliabilityK = k
		}
	}
	if val := os.Getenv("COHRANK_WORKERS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("COHRANK_WORKERS must be an integer: %w", err))
		} else {
			cfg.Workers = n
		}
	}
	if val := os.Getenv("COHRANK_SKIP_MISSING"); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			cfg.SkipMissing = true
		case "false", "0", "no", "off":
			cfg.SkipMissing = false
		}
	}
}

// Validate returns every configuration problem found.
func (c *Config) Validate() []error {
	var errs []error
	if c.ReliabilityK <= 0 {
		errs = append(errs, ErrInvalidReliabilityK)
	}
	if c.Workers < 1 {
		errs = append(errs, ErrInvalidWorkers)
	}
	switch c.TieBreak {
	case "stable", "id":
	default:
		errs = append(errs, ErrInvalidTieBreak)
	}
	switch c.OutOfRange {
	case "clamp", "reject":
	default:
		errs = append(errs, ErrInvalidOutOfRange)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, ErrInvalidLogFormat)
	}
	return errs
}

// getEnvOrDefault returns the environment variable value if set, otherwise current.
func getEnvOrDefault(envKey, current string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return current
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
