package accesslog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldCount is the number of positional fields in a Squid access log line
const FieldCount = 10

// Record represents a single parsed access log line
type Record struct {
	Timestamp       float64
	HeaderSize      int64
	ClientAddress   string
	ResponseCode    string
	ResponseSize    int64
	RequestMethod   string
	URL             string
	Principal       string
	DestinationType string
	ContentType     string
}

// Bytes returns the header and body bytes of the exchange
func (r Record) Bytes() int64 {
	return r.HeaderSize + r.ResponseSize
}

// ParseLine parses one access log line into a Record.
// Tokens beyond the tenth are ignored.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < FieldCount {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, FieldCount, len(fields))
	}

	ts, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedLine, fields[0])
	}
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return Record{}, fmt.Errorf("%w: timestamp %q is not finite", ErrMalformedLine, fields[0])
	}

	headerSize, err := parseSize("header size", fields[1])
	if err != nil {
		return Record{}, err
	}
	responseSize, err := parseSize("response size", fields[4])
	if err != nil {
		return Record{}, err
	}

	return Record{
		Timestamp:       ts,
		HeaderSize:      headerSize,
		ClientAddress:   fields[2],
		ResponseCode:    fields[3],
		ResponseSize:    responseSize,
		RequestMethod:   fields[5],
		URL:             fields[6],
		Principal:       fields[7],
		DestinationType: fields[8],
		ContentType:     fields[9],
	}, nil
}

func parseSize(name, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedLine, name, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", ErrMalformedLine, name, n)
	}
	return n, nil
}
