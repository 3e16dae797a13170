package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatText OutputFormat = "text"
	FormatCSV  OutputFormat = "csv"
)

// ValidFormats lists the accepted output formats
var ValidFormats = []OutputFormat{FormatJSON, FormatText, FormatCSV}

const (
	// DefaultOutputFile is where the summary is written when -o is not given
	DefaultOutputFile = "output/log_output.json"

	envPrefix      = "LOGANALYZER"
	configFileName = "loganalyzer"
)

// Flag names shared by the command line and the config file
const (
	KeyIgnoreHeader   = "ignore-header"
	KeyOutput         = "output"
	KeyFormat         = "format"
	KeyVerbose        = "verbose"
	KeyQuiet          = "quiet"
	KeyLogFile        = "log-file"
	KeyTop            = "top"
	KeyMaxDiagnostics = "max-diagnostics"
	KeyResolve        = "resolve"
	KeyResolver       = "resolver"
	KeyResolveTimeout = "resolve-timeout"
	KeyMetricsFile    = "metrics-file"
	KeyConfig         = "config"
)

// Config holds the application configuration
type Config struct {
	// Input
	LogPath      string
	IgnoreHeader bool // Discard the first physical line of the log

	// Summary export
	OutputFile   string
	OutputFormat OutputFormat

	// Console and system logging
	Verbose        bool
	Quiet          bool
	LogFile        string // File to save system logs
	Top            int    // Number of top addresses to print, 0 = none
	MaxDiagnostics int    // Rejected lines logged individually before summarising

	// Reverse DNS of reported addresses
	Resolve        bool
	Resolver       string // host:port, empty = first nameserver in resolv.conf
	ResolveTimeout time.Duration

	// Prometheus textfile output, empty = disabled
	MetricsFile string
}

// DefaultOutputFileFor returns the default summary path with the extension
// matching format
func DefaultOutputFileFor(format OutputFormat) string {
	base := strings.TrimSuffix(DefaultOutputFile, filepath.Ext(DefaultOutputFile))
	switch format {
	case FormatText:
		return base + ".txt"
	case FormatCSV:
		return base + ".csv"
	default:
		return DefaultOutputFile
	}
}

// RegisterFlags defines every configuration flag on fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Bool(KeyIgnoreHeader, true, "Discard the first line of the log file as a header")
	fs.StringP(KeyOutput, "o", DefaultOutputFile, "Summary output file (extension follows --format when not set)")
	fs.String(KeyFormat, string(FormatJSON), "Summary format: json, text, csv")
	fs.BoolP(KeyVerbose, "v", false, "Enable verbose output")
	fs.BoolP(KeyQuiet, "q", false, "Suppress console output (quiet mode)")
	fs.String(KeyLogFile, "", "Output system logs to file")
	fs.Int(KeyTop, 0, "Print the N most frequent client addresses")
	fs.Int(KeyMaxDiagnostics, 20, "Rejected lines to log individually (all in verbose mode)")
	fs.Bool(KeyResolve, false, "Reverse resolve reported client addresses")
	fs.String(KeyResolver, "", "DNS server for reverse lookups (default: from /etc/resolv.conf)")
	fs.Duration(KeyResolveTimeout, 2*time.Second, "Timeout for each reverse lookup")
	fs.String(KeyMetricsFile, "", "Write Prometheus metrics to this file")
	fs.String(KeyConfig, "", "Config file (default: loganalyzer.yaml in . or "+GetConfigDir()+")")
}

// Load resolves the configuration from flags, LOGANALYZER_* environment
// variables, an optional config file and defaults, in that order.
func Load(fs *pflag.FlagSet, logPath string) (*Config, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
		v.AddConfigPath(GetConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		LogPath:        logPath,
		IgnoreHeader:   v.GetBool(KeyIgnoreHeader),
		OutputFile:     v.GetString(KeyOutput),
		OutputFormat:   OutputFormat(v.GetString(KeyFormat)),
		Verbose:        v.GetBool(KeyVerbose),
		Quiet:          v.GetBool(KeyQuiet),
		LogFile:        v.GetString(KeyLogFile),
		Top:            v.GetInt(KeyTop),
		MaxDiagnostics: v.GetInt(KeyMaxDiagnostics),
		Resolve:        v.GetBool(KeyResolve),
		Resolver:       v.GetString(KeyResolver),
		ResolveTimeout: v.GetDuration(KeyResolveTimeout),
		MetricsFile:    v.GetString(KeyMetricsFile),
	}

	if cfg.OutputFile == DefaultOutputFile {
		cfg.OutputFile = DefaultOutputFileFor(cfg.OutputFormat)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	valid := false
	for _, f := range ValidFormats {
		if c.OutputFormat == f {
			valid = true
			break
		}
	}
	if !valid {
		names := make([]string, len(ValidFormats))
		for i, f := range ValidFormats {
			names[i] = string(f)
		}
		return fmt.Errorf("invalid output format '%s', must be one of: %s", c.OutputFormat, strings.Join(names, ", "))
	}

	if c.OutputFile == "" {
		return fmt.Errorf("output file must not be empty")
	}
	if c.Top < 0 {
		return fmt.Errorf("top must be >= 0")
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("max-diagnostics must be >= 0")
	}
	if c.Resolve && c.ResolveTimeout <= 0 {
		return fmt.Errorf("resolve-timeout must be > 0")
	}
	if c.Quiet && c.Verbose {
		return fmt.Errorf("quiet mode (-q) cannot be combined with verbose (-v)")
	}

	return nil
}

// GetConfigDir returns the configuration directory following XDG spec
func GetConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "loganalyzer")
	}

	// Fallback to ~/.config/loganalyzer
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "loganalyzer")
	}

	// Final fallback to current directory
	return ".loganalyzer"
}
