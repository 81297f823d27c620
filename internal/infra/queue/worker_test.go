package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRunReport(ctx context.Context, report entity.RunReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, f.err
}

type ackRecorder struct {
	acked  chan uint64
	nacked chan uint64
}

func newAckRecorder() *ackRecorder {
	return &ackRecorder{acked: make(chan uint64, 4), nacked: make(chan uint64, 4)}
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.acked <- tag
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked <- tag
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	a.nacked <- tag
	return nil
}

func waitTag(t *testing.T, ch chan uint64) uint64 {
	t.Helper()
	select {
	case tag := <-ch:
		return tag
	case <-time.After(2 * time.Second):
		t.Fatal("timeout esperando ack/nack")
		return 0
	}
}

func TestWorker_AcksDeliveredReports(t *testing.T) {
	body, err := json.Marshal(samplePayload())
	require.NoError(t, err)

	acks := newAckRecorder()
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery, 1)}
	consumer.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 7, Body: body}

	notifier := new(MockNotifier)
	notifier.On("SendRunReport", mock.Anything, mock.MatchedBy(func(p entity.RunReport) bool {
		return p.RunID == "run-123"
	})).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWorker(consumer, notifier).Start(ctx, QueueName) }()

	assert.Equal(t, uint64(7), waitTag(t, acks.acked))
	cancel()
	assert.NoError(t, <-done)
	notifier.AssertExpectations(t)
}

func TestWorker_NacksMalformedAndFailedReports(t *testing.T) {
	body, err := json.Marshal(samplePayload())
	require.NoError(t, err)

	acks := newAckRecorder()
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery, 2)}
	consumer.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 1, Body: []byte("{not json")}
	consumer.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: body}
	close(consumer.deliveries)

	notifier := new(MockNotifier)
	notifier.On("SendRunReport", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err = NewWorker(consumer, notifier).Start(context.Background(), QueueName)

	assert.Error(t, err, "canal fechado encerra o worker com erro")
	assert.Equal(t, uint64(1), waitTag(t, acks.nacked))
	assert.Equal(t, uint64(2), waitTag(t, acks.nacked))
	assert.Empty(t, acks.acked)
}

func TestWorker_ConsumeError(t *testing.T) {
	consumer := &fakeConsumer{err: errors.New("no channel")}

	err := NewWorker(consumer, new(MockNotifier)).Start(context.Background(), QueueName)

	assert.Error(t, err)
}
