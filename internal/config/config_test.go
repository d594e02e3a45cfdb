package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(FileEnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8050, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"data/co2_emissions.csv"}, cfg.Data.Sources)
	assert.Equal(t, []string{"csv", "json"}, cfg.Export.Formats)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, ":8050", cfg.Address())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: 9000
logging:
  level: debug
data:
  sources:
    - a.csv
    - b.json
`), 0644))

	t.Setenv(FileEnvVar, file)
	t.Setenv("CO2_LOGGING_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"a.csv", "b.json"}, cfg.Data.Sources)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(FileEnvVar, "")
	t.Setenv("CO2_SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(FileEnvVar, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8050},
			Logging:   LoggingConfig{Level: "info", Format: "json"},
			Data:      DataConfig{Sources: []string{"a.csv"}},
			Export:    ExportConfig{Formats: []string{"csv", "xlsx", "png"}},
			RateLimit: RateLimitConfig{Enabled: true, RPS: 1, Burst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"no sources", func(c *Config) { c.Data.Sources = nil }, true},
		{"no sources but db", func(c *Config) { c.Data.Sources = nil; c.Data.FromDB = true }, false},
		{"bad rate", func(c *Config) { c.RateLimit.RPS = 0 }, true},
		{"rate disabled", func(c *Config) { c.RateLimit = RateLimitConfig{} }, false},
		{"bad export", func(c *Config) { c.Export.Formats = []string{"pdf"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, model.Source{URL: "data/x.csv", Type: "csv"}, ParseSource("data/x.csv"))
	assert.Equal(t, model.Source{URL: "data/x.JSON", Type: "json"}, ParseSource("data/x.JSON"))
	assert.Equal(t, model.Source{URL: "https://h/x?f=1", Type: "json"}, ParseSource("https://h/x?f=1|JSON"))
}

func TestLoadSpec(t *testing.T) {
	cfg := Config{Data: DataConfig{
		Sources:           []string{"a.csv", "b.json"},
		Transformations:   []string{"trimStrings"},
		ValidationWorkers: 4,
		TransformWorkers:  2,
		BufferSize:        10,
		Timeout:           time.Minute,
		RetryAttempts:     5,
	}}

	spec := cfg.LoadSpec()
	require.Len(t, spec.Sources, 2)
	assert.Equal(t, "json", spec.Sources[1].Type)
	assert.Equal(t, 4, spec.Workers.Validation)
	assert.Equal(t, 5, spec.Retry.MaxAttempts)
	assert.Equal(t, model.DefaultRetryPolicy.InitialDelay, spec.Retry.InitialDelay)
	assert.Nil(t, spec.Sources[0].Validation)
}

func TestLoadSpec_ValidationRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  sources: [a.csv, b.json]
  validation:
    required_fields: ["Country Name", "Region"]
    min_values: {"Emissions": 0}
`), 0o644))
	t.Setenv(FileEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)

	spec := cfg.LoadSpec()
	require.Len(t, spec.Sources, 2)
	for _, src := range spec.Sources {
		require.NotNil(t, src.Validation, src.URL)
		assert.Equal(t, []string{model.ColumnCountry, model.ColumnRegion}, src.Validation.RequiredFields)
		assert.Equal(t, map[string]float64{model.ColumnEmissions: 0}, src.Validation.MinValues)
	}

	def := Default()
	spec = def.LoadSpec()
	require.NotNil(t, spec.Sources[0].Validation, "rows without a country are invalid by default")
	assert.Equal(t, []string{model.ColumnCountry}, spec.Sources[0].Validation.RequiredFields)
}

func TestExampleConfigFile(t *testing.T) {
	t.Setenv(FileEnvVar, filepath.Join("..", "..", "config.example.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Data.Timeout)
	assert.Equal(t, []string{"csv", "json", "xlsx", "png"}, cfg.Export.Formats)
	require.NotNil(t, cfg.Data.Validation)
	assert.Equal(t, []string{model.ColumnCountry}, cfg.Data.Validation.RequiredFields)
}
