// Package config provides unified configuration loading for the compatibility
// engine. Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the compatibility engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Cache         CacheConfig         `yaml:"cache"`
	Matching      MatchingConfig      `yaml:"matching"`
	Batch         BatchConfig         `yaml:"batch"`
	Validation    ValidationConfig    `yaml:"validation"`
	Export        ExportConfig        `yaml:"export"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings for the API binary.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// CatalogConfig points at the part catalog shards and the vehicle registry.
type CatalogConfig struct {
	// ShardDir holds one JSON file per catalog shard, merged at load time.
	ShardDir string `yaml:"shard_dir"`
	// VehicleFile is the JSON vehicle registry used by batch generation.
	VehicleFile string `yaml:"vehicle_file"`
}

// CacheConfig configures the report cache.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend    string        `yaml:"backend"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// MatchingConfig holds tunables for the layered matcher.
type MatchingConfig struct {
	// HeuristicThreshold is the minimum token similarity the heuristic layer accepts.
	HeuristicThreshold float64 `yaml:"heuristic_threshold"`
	// MaxAlternatives caps lower-ranked candidates kept per matched part.
	MaxAlternatives int `yaml:"max_alternatives"`
	// SharedPartsDisplayCap caps shared-part vehicles surfaced per entry.
	SharedPartsDisplayCap int `yaml:"shared_parts_display_cap"`
}

// BatchConfig holds batch generation settings.
type BatchConfig struct {
	Workers      int    `yaml:"workers"`
	ResultsDir   string `yaml:"results_dir"`
	ProgressFile string `yaml:"progress_file"`
}

// ValidationConfig holds structural validation settings.
type ValidationConfig struct {
	// MinConfidence below which a report is flagged with a warning.
	MinConfidence float64 `yaml:"min_confidence"`
	// Strict blocks export on any invalid report; lenient allows up to
	// InvalidRatio of the total.
	Strict       bool    `yaml:"strict"`
	InvalidRatio float64 `yaml:"invalid_ratio"`
	ReportFile   string  `yaml:"report_file"`
}

// ExportConfig holds document store settings for the export step.
type ExportConfig struct {
	// StorePath is the sqlite file backing the document store.
	StorePath string `yaml:"store_path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from the given YAML file path, applies environment
// overrides, and validates the result. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8086,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Catalog: CatalogConfig{
			ShardDir:    "data/catalog",
			VehicleFile: "data/vehicles.json",
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTL:        time.Hour,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
				Prefix:   "compat:",
			},
		},
		Matching: MatchingConfig{
			HeuristicThreshold:    0.4,
			MaxAlternatives:       3,
			SharedPartsDisplayCap: 5,
		},
		Batch: BatchConfig{
			Workers:      10,
			ResultsDir:   "results",
			ProgressFile: "results/progress.json",
		},
		Validation: ValidationConfig{
			MinConfidence: 0.65,
			Strict:        false,
			InvalidRatio:  0.10,
			ReportFile:    "results/validation-report.json",
		},
		Export: ExportConfig{
			StorePath: "results/documents.db",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Matching.HeuristicThreshold < 0 || c.Matching.HeuristicThreshold >= 1 {
		return fmt.Errorf("heuristic threshold out of range: %f", c.Matching.HeuristicThreshold)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Validation.InvalidRatio < 0 || c.Validation.InvalidRatio > 1 {
		return fmt.Errorf("invalid ratio out of range: %f", c.Validation.InvalidRatio)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PARTFIT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PARTFIT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PARTFIT_CATALOG_DIR"); v != "" {
		cfg.Catalog.ShardDir = v
	}
	if v := os.Getenv("PARTFIT_VEHICLE_FILE"); v != "" {
		cfg.Catalog.VehicleFile = v
	}
	if v := os.Getenv("PARTFIT_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("PARTFIT_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = ttl
		}
	}
	if v := os.Getenv("PARTFIT_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("PARTFIT_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("PARTFIT_RESULTS_DIR"); v != "" {
		cfg.Batch.ResultsDir = v
	}
	if v := os.Getenv("PARTFIT_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("PARTFIT_LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
