package report

import (
	"fmt"
	"time"

	"github.com/hmgle/loganalyzer/pkg/accesslog"
)

// KeyTimeFormat is the layout of the timestamp in the export key
const KeyTimeFormat = "2006-01-02T15:04:05"

// Query names used in QueryError
const (
	QueryMostFrequent  = "most_frequent_IPs"
	QueryLeastFrequent = "least_frequent_IPs"
	QueryEventsPerSec  = "events_per_sec"
)

// Queryable is the read side of a loaded log file
type Queryable interface {
	FrequentAddresses(mode accesslog.Frequency) ([]string, error)
	EventsPerSecond() (float64, error)
	TotalBytes() int64
}

// Summary holds the computed results of one analysis run
type Summary struct {
	MostFrequentIPs  []string `json:"most_frequent_IPs"`
	LeastFrequentIPs []string `json:"least_frequent_IPs"`
	EventsPerSec     *float64 `json:"events_per_sec"` // nil when the rate is undefined
	BytesExchanged   int64    `json:"bytes_exchanged"`
}

// QueryError records a query that had no defined result
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Build runs each query once and collects the results. Queries without a
// defined result are left empty in the summary and reported as QueryErrors.
func Build(q Queryable) (Summary, []*QueryError) {
	var errs []*QueryError

	s := Summary{
		MostFrequentIPs:  []string{},
		LeastFrequentIPs: []string{},
		BytesExchanged:   q.TotalBytes(),
	}

	if addrs, err := q.FrequentAddresses(accesslog.MostCommon); err != nil {
		errs = append(errs, &QueryError{Query: QueryMostFrequent, Err: err})
	} else {
		s.MostFrequentIPs = addrs
	}

	if addrs, err := q.FrequentAddresses(accesslog.LessCommon); err != nil {
		errs = append(errs, &QueryError{Query: QueryLeastFrequent, Err: err})
	} else {
		s.LeastFrequentIPs = addrs
	}

	if rate, err := q.EventsPerSecond(); err != nil {
		errs = append(errs, &QueryError{Query: QueryEventsPerSec, Err: err})
	} else {
		s.EventsPerSec = &rate
	}

	return s, errs
}

// Key returns the top level key of an export written at t
func Key(t time.Time) string {
	return "output_" + t.Local().Format(KeyTimeFormat)
}
