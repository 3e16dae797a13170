package accesslog

import (
	"fmt"
	"math"
	"sort"
)

// Frequency selects which end of the address distribution to report
type Frequency string

const (
	MostCommon Frequency = "most_common"
	LessCommon Frequency = "less_common"
)

// ParseFrequency validates a user supplied frequency mode
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case MostCommon, LessCommon:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q, must be one of: %s, %s", ErrInvalidMode, s, MostCommon, LessCommon)
	}
}

// AddressCount pairs a client address with its number of occurrences
type AddressCount struct {
	Address string
	Count   int
}

// addressCounts counts occurrences per address, in order of first appearance
func (lf *LogFile) addressCounts() []AddressCount {
	index := make(map[string]int)
	var counts []AddressCount

	for _, rec := range lf.records {
		i, ok := index[rec.ClientAddress]
		if !ok {
			i = len(counts)
			index[rec.ClientAddress] = i
			counts = append(counts, AddressCount{Address: rec.ClientAddress})
		}
		counts[i].Count++
	}

	return counts
}

// FrequentAddresses returns every address whose count equals the maximum
// (MostCommon) or minimum (LessCommon) count. Ties are all included, in
// order of first appearance.
func (lf *LogFile) FrequentAddresses(mode Frequency) ([]string, error) {
	if mode != MostCommon && mode != LessCommon {
		_, err := ParseFrequency(string(mode))
		return nil, err
	}

	counts := lf.addressCounts()
	if len(counts) == 0 {
		return nil, ErrNoData
	}

	target := counts[0].Count
	for _, c := range counts[1:] {
		if mode == MostCommon && c.Count > target {
			target = c.Count
		}
		if mode == LessCommon && c.Count < target {
			target = c.Count
		}
	}

	var addrs []string
	for _, c := range counts {
		if c.Count == target {
			addrs = append(addrs, c.Address)
		}
	}
	return addrs, nil
}

// TopAddresses returns the n most frequent addresses, highest count first.
// A non-positive n returns every address.
func (lf *LogFile) TopAddresses(n int) []AddressCount {
	counts := lf.addressCounts()
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// TimeSpan returns the smallest and largest timestamps
func (lf *LogFile) TimeSpan() (first, last float64, err error) {
	if len(lf.records) == 0 {
		return 0, 0, ErrNoData
	}

	first, last = lf.records[0].Timestamp, lf.records[0].Timestamp
	for _, rec := range lf.records[1:] {
		if rec.Timestamp < first {
			first = rec.Timestamp
		}
		if rec.Timestamp > last {
			last = rec.Timestamp
		}
	}
	return first, last, nil
}

// EventsPerSecond returns the number of records divided by the time between
// the first and last record
func (lf *LogFile) EventsPerSecond() (float64, error) {
	first, last, err := lf.TimeSpan()
	if err != nil {
		return 0, err
	}

	span := last - first
	if span <= 0 {
		return 0, ErrZeroTimeSpan
	}
	rate := float64(len(lf.records)) / span
	if math.IsInf(span, 0) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: span of %g seconds", ErrRateUndefined, span)
	}
	return rate, nil
}

// TotalBytes returns the header plus response bytes of all records
func (lf *LogFile) TotalBytes() int64 {
	var total int64
	for _, rec := range lf.records {
		total += rec.Bytes()
	}
	return total
}
