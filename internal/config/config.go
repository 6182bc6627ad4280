package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Parse   ParseConfig   `yaml:"parse" envconfig:"PARSE"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wprcli.log"`
}

// ParseConfig contains report parsing behavior configuration
type ParseConfig struct {
	// AbortOnMissingHeader fails a multi-table parse on the first segment
	// without a classifiable header instead of skipping the segment.
	AbortOnMissingHeader bool `yaml:"abort_on_missing_header" envconfig:"ABORT_ON_MISSING_HEADER" default:"false"`
	// FailOnMalformedValue aborts a parse when a value formatter rejects a
	// cell instead of keeping the raw value.
	FailOnMalformedValue bool `yaml:"fail_on_malformed_value" envconfig:"FAIL_ON_MALFORMED_VALUE" default:"false"`
	// Workers bounds the batch processor's concurrent file parses.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"4"`
}

// PathsConfig contains filesystem path overrides. Empty values fall back to
// the executable-relative layout from GetPaths.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ExportsDir string `yaml:"exports_dir" envconfig:"EXPORTS_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	ArchiveDir string `yaml:"archive_dir" envconfig:"ARCHIVE_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Load loads configuration from environment variables and the optional config
// file next to the executable. Environment variables win.
func Load() (*Config, error) {
	var fileCfg Config
	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		loaded, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		fileCfg = *loaded
	}

	cfg := fileCfg
	if err := envconfig.Process("WPR", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Output {
	case "", "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q (want console, file or both)", c.Logging.Output)
	}
	if c.Parse.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Parse.Workers)
	}
	return nil
}

// configFilePath returns the expected location of the YAML config file,
// next to the executable.
func configFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(filepath.Dir(exe), ConfigFileName)
}
