package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hmgle/loganalyzer/internal/config"
	"github.com/hmgle/loganalyzer/pkg/accesslog"
	"github.com/hmgle/loganalyzer/pkg/logger"
	"github.com/hmgle/loganalyzer/pkg/metrics"
	"github.com/hmgle/loganalyzer/pkg/report"
	"github.com/hmgle/loganalyzer/pkg/resolve"
	"github.com/spf13/cobra"
)

const (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "loganalyzer [flags] <logfile>",
		Short: "LogAnalyzer - Squid access log statistics",
		Long: `LogAnalyzer loads a Squid access log into memory and reports the most
and least frequent client addresses, the number of events per second and
the total bytes exchanged. Malformed lines are reported and skipped.

Gzip and zstd compressed logs are decompressed transparently.

Examples:
  # Analyze a log and write output/log_output.json
  loganalyzer access.log

  # The log has no header line
  loganalyzer --ignore-header=false access.log

  # Text summary to output/log_output.txt, top 10 clients with their host names
  loganalyzer --format text --top 10 --resolve access.log.gz

  # Quiet mode, system logs and metrics to files
  loganalyzer -q --log-file analyzer.log --metrics-file loganalyzer.prom access.log`,
		Version:       version,
		Args:          validateArgs,
		RunE:          runAnalyzer,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	config.RegisterFlags(rootCmd.Flags())
	return rootCmd
}

// validateArgs requires the log file path as the only argument
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one argument, the path to your log file (got %d)", len(args))
	}
	return nil
}

func runAnalyzer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags(), args[0])
	if err != nil {
		return err
	}

	log, err := logger.NewWithOptions(logger.Options{
		Verbose: cfg.Verbose,
		Quiet:   cfg.Quiet,
		LogFile: cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	runID := uuid.NewString()
	log.Info("Starting LogAnalyzer v%s (run %s)", version, runID)

	m := metrics.NewAnalyzerMetrics()

	// Load
	log.Info("Loading log file %s...", cfg.LogPath)
	start := time.Now()
	lf, diags, err := accesslog.Load(cfg.LogPath, accesslog.LoadOptions{IgnoreHeader: cfg.IgnoreHeader})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Error("File not found: %s", cfg.LogPath)
			return fmt.Errorf("file not found: %s", cfg.LogPath)
		}
		log.Error("Failed to load log file: %v", err)
		return err
	}
	m.ObserveLoad(lf.Len(), len(diags), time.Since(start))
	reportDiagnostics(log, cfg, diags)
	log.Info("Loaded %d records (%d lines rejected, compression: %s)", lf.Len(), len(diags), lf.Compression())

	// Analyze
	log.Info("Analyzing log data...")
	summary, queryErrs := report.Build(lf)
	for _, qerr := range queryErrs {
		m.QueryErrors.WithLabelValues(qerr.Query).Inc()
		log.Warn("%v", qerr)
	}
	m.BytesExchanged.Set(float64(summary.BytesExchanged))
	if summary.EventsPerSec != nil {
		m.EventsPerSec.Set(*summary.EventsPerSec)
	}

	if cfg.Top > 0 {
		printTopAddresses(cmd.Context(), log, cfg, lf.TopAddresses(cfg.Top))
	} else if cfg.Resolve {
		printHostNames(cmd.Context(), log, cfg, summary)
	}

	// Export
	log.Info("Saving %s summary to %s...", cfg.OutputFormat, cfg.OutputFile)
	if err := report.WriteFile(cfg.OutputFile, cfg.OutputFormat, summary, time.Now()); err != nil {
		log.Error("Failed to save summary: %v", err)
		return err
	}
	log.Debug("Most frequent IPs: %s", strings.Join(summary.MostFrequentIPs, ", "))
	log.Debug("Least frequent IPs: %s", strings.Join(summary.LeastFrequentIPs, ", "))
	log.Debug("Bytes exchanged: %d", summary.BytesExchanged)

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("Failed to write metrics file: %v", err)
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
		log.Debug("Metrics written to %s", cfg.MetricsFile)
	}

	log.Info("Done (run %s)", runID)
	return nil
}

// reportDiagnostics logs rejected lines, individually up to the configured limit
func reportDiagnostics(log *logger.StandardLogger, cfg *config.Config, diags []accesslog.Diagnostic) {
	limit := cfg.MaxDiagnostics
	if log.Verbose() {
		limit = len(diags)
	}

	for i, d := range diags {
		if i >= limit {
			log.Warn("%d more lines rejected (use -v to list all)", len(diags)-limit)
			break
		}
		log.Warn("%s. Continue to next line", d)
	}
}

// printTopAddresses logs the most frequent clients, with host names when resolving
func printTopAddresses(ctx context.Context, log *logger.StandardLogger, cfg *config.Config, top []accesslog.AddressCount) {
	var hosts map[string][]string
	if cfg.Resolve {
		addrs := make([]string, len(top))
		for i, ac := range top {
			addrs[i] = ac.Address
		}
		hosts = lookupHosts(ctx, log, cfg, addrs)
	}

	log.Info("Top %d client addresses:", len(top))
	for i, ac := range top {
		if names := hosts[ac.Address]; len(names) > 0 {
			log.Info("%3d. %-40s %8d  (%s)", i+1, ac.Address, ac.Count, strings.Join(names, ", "))
		} else {
			log.Info("%3d. %-40s %8d", i+1, ac.Address, ac.Count)
		}
	}
}

// printHostNames logs host names of the most and least frequent addresses
func printHostNames(ctx context.Context, log *logger.StandardLogger, cfg *config.Config, s report.Summary) {
	addrs := append(append([]string{}, s.MostFrequentIPs...), s.LeastFrequentIPs...)
	hosts := lookupHosts(ctx, log, cfg, addrs)
	for _, addr := range addrs {
		if names, ok := hosts[addr]; ok {
			log.Info("%s -> %s", addr, strings.Join(names, ", "))
			delete(hosts, addr)
		}
	}
}

func lookupHosts(ctx context.Context, log *logger.StandardLogger, cfg *config.Config, addrs []string) map[string][]string {
	r, err := resolve.NewResolver(cfg.Resolver, cfg.ResolveTimeout, log)
	if err != nil {
		log.Warn("Reverse lookups disabled: %v", err)
		return nil
	}
	log.Debug("Resolving %d addresses via %s", len(addrs), r.Server())
	return r.LookupAll(ctx, addrs)
}
