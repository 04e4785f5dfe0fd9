package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsRowsAndSinks(t *testing.T) {
	r := New()
	r.ObserveDataset("categorical", map[string]int{"tuples": 50, "categories": 6}, 6, 1500*time.Millisecond)
	r.ObserveDataset("categorical", map[string]int{"tuples": 10, "categories": 2}, 2, time.Second)
	r.ObserveSink("csv", nil)
	r.ObserveSink("s3", errors.New("boom"))

	assert.Equal(t, 60.0, testutil.ToFloat64(r.rows.WithLabelValues("categorical", "tuples")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.categories.WithLabelValues("categorical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.duration.WithLabelValues("categorical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sinkWrites.WithLabelValues("s3", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sinkWrites.WithLabelValues("csv", "ok")))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveDataset("nested", map[string]int{"tuples": 3}, 0, time.Millisecond)
	p := filepath.Join(t.TempDir(), "tuplegen.prom")
	require.NoError(t, r.WriteTextfile(p))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	body := string(b)
	assert.True(t, strings.Contains(body, `tuplegen_rows_generated_total{kind="nested",table="tuples"} 3`), body)
	assert.Contains(t, body, "# TYPE tuplegen_categories gauge")
}
