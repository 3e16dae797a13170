package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hmgle/loganalyzer/internal/config"
)

// Write encodes the summary to w in the given format
func Write(w io.Writer, format config.OutputFormat, s Summary, now time.Time) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(w, s, now)
	case config.FormatText:
		return writeText(w, s, now)
	case config.FormatCSV:
		return writeCSV(w, s, now)
	}
	return fmt.Errorf("unsupported output format '%s'", format)
}

// WriteFile writes the summary to path, creating the parent directory.
// The file is replaced atomically.
func WriteFile(path string, format config.OutputFormat, s Summary, now time.Time) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, format, s, now); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set output file mode: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}

// writeJSON writes {"output_<time>": {...}}
func writeJSON(w io.Writer, s Summary, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]Summary{Key(now): s})
}

// writeText writes the summary as human-readable text
func writeText(w io.Writer, s Summary, now time.Time) error {
	rate := "undefined"
	if s.EventsPerSec != nil {
		rate = strconv.FormatFloat(*s.EventsPerSec, 'f', -1, 64)
	}

	text := fmt.Sprintf("%s\nmost frequent IPs:  %s\nleast frequent IPs: %s\nevents per second:  %s\nbytes exchanged:    %d\n",
		Key(now),
		strings.Join(s.MostFrequentIPs, ", "),
		strings.Join(s.LeastFrequentIPs, ", "),
		rate,
		s.BytesExchanged,
	)

	_, err := io.WriteString(w, text)
	return err
}

// writeCSV writes a header and a single row; address lists are ';' separated
func writeCSV(w io.Writer, s Summary, now time.Time) error {
	rate := ""
	if s.EventsPerSec != nil {
		rate = strconv.FormatFloat(*s.EventsPerSec, 'f', -1, 64)
	}

	cw := csv.NewWriter(w)
	header := []string{"key", QueryMostFrequent, QueryLeastFrequent, QueryEventsPerSec, "bytes_exchanged"}
	row := []string{
		Key(now),
		strings.Join(s.MostFrequentIPs, ";"),
		strings.Join(s.LeastFrequentIPs, ";"),
		rate,
		strconv.FormatInt(s.BytesExchanged, 10),
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
