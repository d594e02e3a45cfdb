package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// EnvPrefix prefixes every environment variable, e.g. CO2_SERVER_PORT.
const EnvPrefix = "CO2"

// FileEnvVar names the optional YAML config file.
const FileEnvVar = "CO2_CONFIG_FILE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig describes where the emissions table comes from
type DataConfig struct {
	// Sources are "path" or "path|type" entries, type defaulting from the extension.
	Sources           []string      `yaml:"sources" envconfig:"SOURCES"`
	Transformations   []string      `yaml:"transformations" envconfig:"TRANSFORMATIONS"`
	DBPath            string        `yaml:"db_path" envconfig:"DB_PATH"`
	FromDB            bool          `yaml:"from_db" envconfig:"FROM_DB"`
	ValidationWorkers int           `yaml:"validation_workers" envconfig:"VALIDATION_WORKERS"`
	TransformWorkers  int           `yaml:"transform_workers" envconfig:"TRANSFORM_WORKERS"`
	BufferSize        int           `yaml:"buffer_size" envconfig:"BUFFER_SIZE"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	RetryAttempts     int           `yaml:"retry_attempts" envconfig:"RETRY_ATTEMPTS"`
	// Validation applies to every source; rows failing it are counted invalid.
	Validation *model.ValidationRules `yaml:"validation" ignored:"true"`
}

// ExportConfig contains export configuration
type ExportConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR"`
	Formats []string `yaml:"formats" envconfig:"FORMATS"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// without default tags envconfig only touches variables that are set
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when neither file nor environment set a value
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8050,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/dashboard.log",
		},
		Data: DataConfig{
			Sources:           []string{"data/co2_emissions.csv"},
			Transformations:   []string{"trimStrings", "dropAggregates"},
			DBPath:            "data/emissions.db",
			ValidationWorkers: 3,
			TransformWorkers:  2,
			BufferSize:        256,
			Timeout:           2 * time.Minute,
			RetryAttempts:     3,
			Validation: &model.ValidationRules{
				RequiredFields: []string{model.ColumnCountry},
			},
		},
		Export: ExportConfig{
			Dir:     "exports",
			Formats: []string{"csv", "json"},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     50,
			Burst:   100,
		},
	}
}

// loadFromFile overlays the keys present in a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if !c.Data.FromDB && len(c.Data.Sources) == 0 {
		return fmt.Errorf("no data sources configured")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit needs positive rps and burst")
	}

	for _, f := range c.Export.Formats {
		switch strings.ToLower(f) {
		case "csv", "json", "xlsx", "png":
		default:
			return fmt.Errorf("unsupported export format: %s", f)
		}
	}

	return nil
}

// LoadSpec turns the data section into a pipeline load specification
func (c *Config) LoadSpec() model.LoadSpec {
	spec := model.LoadSpec{
		Transformations: c.Data.Transformations,
		Workers: model.Workers{
			Validation: c.Data.ValidationWorkers,
			Transform:  c.Data.TransformWorkers,
		},
		ChannelBufferSize: c.Data.BufferSize,
		Timeout:           c.Data.Timeout,
		Retry:             model.DefaultRetryPolicy,
	}
	if c.Data.RetryAttempts > 0 {
		spec.Retry.MaxAttempts = c.Data.RetryAttempts
	}
	for _, entry := range c.Data.Sources {
		src := ParseSource(entry)
		src.Validation = c.Data.Validation
		spec.Sources = append(spec.Sources, src)
	}
	return spec
}

// ParseSource parses a "path|type" source entry.
func ParseSource(entry string) model.Source {
	entry = strings.TrimSpace(entry)
	if i := strings.LastIndex(entry, "|"); i >= 0 {
		return model.Source{URL: entry[:i], Type: strings.ToLower(entry[i+1:])}
	}
	typ := "csv"
	if strings.HasSuffix(strings.ToLower(entry), ".json") {
		typ = "json"
	}
	return model.Source{URL: entry, Type: typ}
}

// Address returns the listen address of the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
