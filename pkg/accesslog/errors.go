package accesslog

import "errors"

var (
	// ErrMalformedLine marks a line that could not be parsed into a Record.
	// It only ever appears inside a Diagnostic, never as a Load error.
	ErrMalformedLine = errors.New("malformed log line")

	// ErrInvalidEncoding is returned when the decoded content is not UTF-8
	ErrInvalidEncoding = errors.New("log file is not valid UTF-8")

	// ErrNoData is returned by queries that are undefined over zero records
	ErrNoData = errors.New("no data: log file holds no records")

	// ErrZeroTimeSpan is returned when all records share one timestamp
	ErrZeroTimeSpan = errors.New("rate undefined: zero time span between first and last record")

	// ErrRateUndefined is returned when the time span is too small or too
	// large for the rate to be a finite number
	ErrRateUndefined = errors.New("rate undefined: time span out of range")

	// ErrInvalidMode is returned for an unknown frequency mode
	ErrInvalidMode = errors.New("invalid frequency mode")
)
