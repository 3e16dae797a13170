package accesslog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadString(t *testing.T, lines ...string) *LogFile {
	t.Helper()
	lf, diags, err := LoadReader(strings.NewReader(strings.Join(lines, "\n")), LoadOptions{})
	require.NoError(t, err)
	require.Empty(t, diags)
	return lf
}

func line(ts, addr string) string {
	return ts + " 100 " + addr + " 200 500 GET /a u1 DIRECT text/html"
}

func TestQueriesSameTimestamp(t *testing.T) {
	lf := loadString(t,
		"1000.0 100 10.0.0.1 200 500 GET /a u1 DIRECT text/html",
		"1000.0 100 10.0.0.1 200 500 GET /b u1 DIRECT text/html",
	)

	assert.Equal(t, int64(1200), lf.TotalBytes())

	_, err := lf.EventsPerSecond()
	assert.ErrorIs(t, err, ErrZeroTimeSpan)

	most, err := lf.FrequentAddresses(MostCommon)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, most)
}

func TestFrequentAddressesTies(t *testing.T) {
	lf := loadString(t,
		line("1.0", "a"),
		line("2.0", "b"),
		line("3.0", "a"),
		line("4.0", "c"),
		line("5.0", "b"),
		line("6.0", "d"),
	)

	most, err := lf.FrequentAddresses(MostCommon)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, most)

	least, err := lf.FrequentAddresses(LessCommon)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, least)

	counts := make(map[string]int)
	for _, rec := range lf.Records() {
		counts[rec.ClientAddress]++
	}
	for _, addr := range most {
		for other, n := range counts {
			assert.GreaterOrEqual(t, counts[addr], n, "address %s outranks %s", other, addr)
		}
	}
}

func TestFrequentAddressesSingleAddress(t *testing.T) {
	lf := loadString(t,
		line("1.0", "192.168.0.9"),
		line("2.0", "192.168.0.9"),
		line("3.0", "192.168.0.9"),
	)

	most, err := lf.FrequentAddresses(MostCommon)
	require.NoError(t, err)
	least, err := lf.FrequentAddresses(LessCommon)
	require.NoError(t, err)

	assert.Equal(t, []string{"192.168.0.9"}, most)
	assert.Equal(t, most, least)
}

func TestFrequentAddressesInvalidMode(t *testing.T) {
	lf := loadString(t, line("1.0", "a"))

	_, err := lf.FrequentAddresses(Frequency("sometimes"))
	require.ErrorIs(t, err, ErrInvalidMode)
	assert.Contains(t, err.Error(), "sometimes")
	assert.Contains(t, err.Error(), "most_common")
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("less_common")
	require.NoError(t, err)
	assert.Equal(t, LessCommon, f)

	_, err = ParseFrequency("MOST_COMMON")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestQueriesEmpty(t *testing.T) {
	lf, _, err := LoadReader(strings.NewReader(""), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(0), lf.TotalBytes())
	assert.Empty(t, lf.TopAddresses(5))

	_, err = lf.EventsPerSecond()
	assert.ErrorIs(t, err, ErrNoData)

	_, err = lf.FrequentAddresses(MostCommon)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = lf.FrequentAddresses(LessCommon)
	assert.ErrorIs(t, err, ErrNoData)

	_, _, err = lf.TimeSpan()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestEventsPerSecond(t *testing.T) {
	lf := loadString(t,
		line("1010.0", "a"),
		line("1000.0", "b"),
		line("1002.5", "c"),
		line("1005.0", "d"),
		line("1001.0", "e"),
	)

	first, last, err := lf.TimeSpan()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, first)
	assert.Equal(t, 1010.0, last)

	rate, err := lf.EventsPerSecond()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rate, 1e-9)
}

func TestEventsPerSecondSingleRecord(t *testing.T) {
	lf := loadString(t, line("1000.0", "a"))

	rate, err := lf.EventsPerSecond()
	assert.ErrorIs(t, err, ErrZeroTimeSpan)
	assert.Zero(t, rate)
}

func TestTopAddresses(t *testing.T) {
	lf := loadString(t,
		line("1.0", "a"),
		line("2.0", "b"),
		line("3.0", "b"),
		line("4.0", "c"),
		line("5.0", "c"),
		line("6.0", "c"),
	)

	assert.Equal(t, []AddressCount{{"c", 3}, {"b", 2}}, lf.TopAddresses(2))
	assert.Len(t, lf.TopAddresses(0), 3)
	assert.Len(t, lf.TopAddresses(10), 3)
}

func TestEventsPerSecondUndefinedSpan(t *testing.T) {
	tests := []struct {
		name    string
		first   string
		last    string
		wantErr error
	}{
		{"identical timestamps", "1000.0", "1000.0", ErrZeroTimeSpan},
		{"denormal span", "0", "5e-324", ErrRateUndefined},
		{"overflowing span", "-1.7e308", "1.7e308", ErrRateUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf := loadString(t, line(tt.first, "a"), line(tt.last, "a"))

			rate, err := lf.EventsPerSecond()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, rate)
		})
	}
}
