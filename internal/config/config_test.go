package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	fs := pflag.NewFlagSet("loganalyzer", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t), "access.log")
	require.NoError(t, err)

	assert.Equal(t, "access.log", cfg.LogPath)
	assert.True(t, cfg.IgnoreHeader)
	assert.Equal(t, DefaultOutputFile, cfg.OutputFile)
	assert.Equal(t, FormatJSON, cfg.OutputFormat)
	assert.Equal(t, 20, cfg.MaxDiagnostics)
	assert.Equal(t, 2*time.Second, cfg.ResolveTimeout)
	assert.False(t, cfg.Resolve)
	assert.Empty(t, cfg.MetricsFile)
}

func TestLoadFlagsOverride(t *testing.T) {
	fs := newFlags(t, "--ignore-header=false", "-o", "out.csv", "--format", "csv", "--top", "5", "-v")

	cfg, err := Load(fs, "access.log")
	require.NoError(t, err)

	assert.False(t, cfg.IgnoreHeader)
	assert.Equal(t, "out.csv", cfg.OutputFile)
	assert.Equal(t, FormatCSV, cfg.OutputFormat)
	assert.Equal(t, 5, cfg.Top)
	assert.True(t, cfg.Verbose)
}

func TestLoadEnvironment(t *testing.T) {
	fs := newFlags(t)
	t.Setenv("LOGANALYZER_FORMAT", "text")
	t.Setenv("LOGANALYZER_MAX_DIAGNOSTICS", "3")

	cfg, err := Load(fs, "access.log")
	require.NoError(t, err)

	assert.Equal(t, FormatText, cfg.OutputFormat)
	assert.Equal(t, "output/log_output.txt", cfg.OutputFile)
	assert.Equal(t, 3, cfg.MaxDiagnostics)
}

func TestLoadDefaultOutputFollowsFormat(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", nil, "output/log_output.json"},
		{"json", []string{"--format", "json"}, "output/log_output.json"},
		{"text", []string{"--format", "text"}, "output/log_output.txt"},
		{"csv", []string{"--format", "csv"}, "output/log_output.csv"},
		{"explicit output", []string{"--format", "csv", "-o", "summary.json"}, "summary.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(newFlags(t, tt.args...), "access.log")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.OutputFile)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loganalyzer.yaml")
	data := `
ignore-header: false
resolve: true
resolver: 127.0.0.1:5353
resolve-timeout: 500ms
metrics-file: /tmp/loganalyzer.prom
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(newFlags(t, "--config", path, "--resolve-timeout", "1s"), "access.log")
	require.NoError(t, err)

	assert.False(t, cfg.IgnoreHeader)
	assert.True(t, cfg.Resolve)
	assert.Equal(t, "127.0.0.1:5353", cfg.Resolver)
	assert.Equal(t, time.Second, cfg.ResolveTimeout, "flag takes precedence over config file")
	assert.Equal(t, "/tmp/loganalyzer.prom", cfg.MetricsFile)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")), "access.log")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{OutputFile: DefaultOutputFile, OutputFormat: FormatJSON, ResolveTimeout: time.Second}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.OutputFormat = "har" }},
		{"empty output", func(c *Config) { c.OutputFile = "" }},
		{"negative top", func(c *Config) { c.Top = -1 }},
		{"negative max diagnostics", func(c *Config) { c.MaxDiagnostics = -1 }},
		{"zero resolve timeout", func(c *Config) { c.Resolve = true; c.ResolveTimeout = 0 }},
		{"quiet and verbose", func(c *Config) { c.Quiet = true; c.Verbose = true }},
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
