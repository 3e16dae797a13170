package accesslog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// LoadOptions controls how a log file is read
type LoadOptions struct {
	// IgnoreHeader discards the first physical line before parsing
	IgnoreHeader bool
}

// Diagnostic describes a line that was rejected during a load
type Diagnostic struct {
	Slot int   // record index that was being attempted (1-based)
	Line int   // physical line number in the file (1-based)
	Err  error // wraps ErrMalformedLine
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("error parsing record %d (line %d): %v", d.Slot, d.Line, d.Err)
}

// LogFile holds every record accepted from one access log file.
// It is never modified after Load returns.
type LogFile struct {
	path         string
	ignoreHeader bool
	compression  CompressionType
	records      []Record
}

// Load reads the whole file at path and parses it.
// Rejected lines are reported as diagnostics; the returned error is only
// set for failures that make the whole file unusable.
func Load(path string, opts LoadOptions) (*LogFile, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	lf, diags, err := LoadReader(f, opts)
	if err != nil {
		return nil, nil, err
	}
	lf.path = path
	return lf, diags, nil
}

// LoadReader parses a log from r, which is read to EOF
func LoadReader(r io.Reader, opts LoadOptions) (*LogFile, []Diagnostic, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read log file: %w", err)
	}

	data, ct, err := Decompress(raw)
	if err != nil {
		return nil, nil, err
	}
	if !utf8.Valid(data) {
		return nil, nil, ErrInvalidEncoding
	}

	lf := &LogFile{
		ignoreHeader: opts.IgnoreHeader,
		compression:  ct,
	}
	diags := lf.parse(string(data))
	return lf, diags, nil
}

func (lf *LogFile) parse(content string) []Diagnostic {
	var diags []Diagnostic

	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	start := 0
	if lf.ignoreHeader && len(lines) > 0 {
		start = 1
	}

	for i := start; i < len(lines); i++ {
		rec, err := ParseLine(lines[i])
		if err != nil {
			diags = append(diags, Diagnostic{
				Slot: len(lf.records) + 1,
				Line: i + 1,
				Err:  err,
			})
			continue
		}
		lf.records = append(lf.records, rec)
	}

	return diags
}

// Path returns the file the records were loaded from
func (lf *LogFile) Path() string {
	return lf.path
}

// Compression reports how the source file was compressed
func (lf *LogFile) Compression() CompressionType {
	return lf.compression
}

// Len returns the number of accepted records
func (lf *LogFile) Len() int {
	return len(lf.records)
}

// Record returns the record at the 1-based slot n
func (lf *LogFile) Record(n int) (Record, bool) {
	if n < 1 || n > len(lf.records) {
		return Record{}, false
	}
	return lf.records[n-1], true
}

// Records returns a copy of all records in slot order
func (lf *LogFile) Records() []Record {
	out := make([]Record, len(lf.records))
	copy(out, lf.records)
	return out
}
