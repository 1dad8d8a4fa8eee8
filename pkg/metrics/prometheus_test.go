package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordUpstream("bars", "ok", 0.12)
	r.RecordUpstream("bars", "ok", 0.3)
	r.RecordUpstream("info", "UpstreamTimeout", 10)
	r.RecordError("SymbolNotFound")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamTotal.WithLabelValues("bars", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamTotal.WithLabelValues("info", "UpstreamTimeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("SymbolNotFound")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.upstreamLatency))
}
