package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishMessageEncodesJSON(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "gateway-1", "gzip")

	payload := []map[string]interface{}{{"level": "error", "count": 3}}
	require.NoError(t, p.PublishMessage(context.Background(), "marketgate.logs", payload))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "marketgate.logs", w.msgs[0].Topic)
	assert.Equal(t, []byte("gateway-1"), w.msgs[0].Key)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "error", got[0]["level"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishRawAndError(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "", "")

	require.NoError(t, p.Publish(context.Background(), "t", nil, "plain"))
	assert.Equal(t, []byte("plain"), w.msgs[0].Value)
	assert.Nil(t, w.msgs[0].Key)

	w.err = errors.New("broker down")
	err := p.PublishMessage(context.Background(), "t", []byte("x"))
	assert.ErrorContains(t, err, "broker down")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
