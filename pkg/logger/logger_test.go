package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel).With(String("component", "yahoo"))

	l.Debug("hidden")
	l.Info("fetched", String("symbol", "AAPL"), Int("bars", 5), Duration("latency_ms", 1500*time.Millisecond))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetched", entry["message"])
	assert.Equal(t, "AAPL", entry["symbol"])
	assert.Equal(t, "yahoo", entry["component"])
	assert.EqualValues(t, 5, entry["bars"])
	assert.EqualValues(t, 1500, entry["latency_ms"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing", Error(errors.New("x")))
	l.RemoveCollector()
}

type capturePublisher struct {
	got chan []AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	if topic != "logs" {
		return errors.New("unexpected topic " + topic)
	}
	p.got <- payload.([]AggregatedLogEntry)
	return nil
}

func TestCollectorAggregatesErrors(t *testing.T) {
	pub := &capturePublisher{got: make(chan []AggregatedLogEntry, 4)}
	l := Nop()
	l.AddCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "logs",
		Publisher:      pub,
	})

	for i := 0; i < 3; i++ {
		l.Error("upstream failed", String("op", "bars"))
	}
	l.RemoveCollector()

	select {
	case logs := <-pub.got:
		require.Len(t, logs, 1)
		assert.Equal(t, 3, logs[0].Count)
		assert.Equal(t, "error", logs[0].Level)
		assert.Equal(t, "bars", logs[0].Fields["op"])
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not flush")
	}
}

type failingPublisher struct{}

func (failingPublisher) PublishMessage(context.Context, string, interface{}) error {
	return errors.New("broker down")
}

func TestCollectorThresholdAndPublishFailure(t *testing.T) {
	var errOut bytes.Buffer
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Topic:          "logs",
		Publisher:      failingPublisher{},
		ErrOutput:      &errOut,
	})

	c.AddLog("warn", "upstream failed", map[string]interface{}{"op": "bars"}, "a.go:1")
	assert.Equal(t, 1, c.Pending())
	c.AddLog("warn", "upstream failed", map[string]interface{}{"op": "info"}, "a.go:1")
	assert.Equal(t, 0, c.Pending())

	c.Close()
	assert.Contains(t, errOut.String(), "publish 2 entries to logs: broker down")
}
