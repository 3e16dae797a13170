package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLoad(t *testing.T) {
	m := NewAnalyzerMetrics()

	m.ObserveLoad(10, 2, 50*time.Millisecond)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.LinesTotal.WithLabelValues(StatusAccepted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LinesTotal.WithLabelValues(StatusRejected)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.RecordsLoaded))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LoadDuration))
}

func TestMetricsAreIndependent(t *testing.T) {
	a := NewAnalyzerMetrics()
	b := NewAnalyzerMetrics()

	a.QueryErrors.WithLabelValues("events_per_sec").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.QueryErrors.WithLabelValues("events_per_sec")))
	assert.Equal(t, 0, testutil.CollectAndCount(b.QueryErrors))
}

func TestWriteTextfile(t *testing.T) {
	m := NewAnalyzerMetrics()
	m.BytesExchanged.Set(1200)
	m.ObserveLoad(2, 0, time.Millisecond)

	path := filepath.Join(t.TempDir(), "loganalyzer.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loganalyzer_query_bytes_exchanged 1200")
	assert.Contains(t, string(data), `loganalyzer_load_lines_total{status="accepted"} 2`)
}
