package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breathe-backend/domain/events"
)

type fakeBus struct {
	calls    []*eventbridge.PutEventsInput
	failures []error
	output   *eventbridge.PutEventsOutput
}

func (f *fakeBus) PutEvents(_ context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.calls = append(f.calls, in)
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return nil, err
	}
	if f.output != nil {
		return f.output, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

var ts = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

func newTestPublisher(bus *fakeBus) *Publisher {
	p := NewPublisher(bus, "breathe-bus", zap.NewNop())
	p.backoff = time.Millisecond
	return p
}

func TestPublisher_Publish(t *testing.T) {
	// Arrange
	bus := &fakeBus{}
	p := newTestPublisher(bus)
	event := events.NewSessionRecorded("s1", "u1", "box-breathing", 120, true, ts)

	// Act
	err := p.Publish(context.Background(), event)

	// Assert
	require.NoError(t, err)
	require.Len(t, bus.calls, 1)
	entry := bus.calls[0].Entries[0]
	assert.Equal(t, "breathe-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeSessionRecorded, aws.ToString(entry.DetailType))

	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "box-breathing", detail["technique_id"])
}

func TestPublisher_BatchesOfTen(t *testing.T) {
	bus := &fakeBus{}
	p := newTestPublisher(bus)

	batch := make([]events.DomainEvent, 0, 23)
	for i := 0; i < 23; i++ {
		batch = append(batch, events.NewFavoriteAdded("u1", fmt.Sprintf("t%d", i), ts))
	}

	require.NoError(t, p.PublishBatch(context.Background(), batch))
	require.Len(t, bus.calls, 3)
	assert.Len(t, bus.calls[0].Entries, 10)
	assert.Len(t, bus.calls[2].Entries, 3)
}

func TestPublisher_Retries(t *testing.T) {
	tests := []struct {
		name      string
		failures  []error
		wantErr   bool
		wantCalls int
	}{
		{"recovers", []error{errors.New("throttled")}, false, 2},
		{"gives up", []error{errors.New("a"), errors.New("b"), errors.New("c")}, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{failures: tt.failures}
			p := newTestPublisher(bus)

			err := p.Publish(context.Background(), events.NewUserRegistered("u1", "a@b.co", ts))

			assert.Equal(t, tt.wantErr, err != nil)
			assert.Len(t, bus.calls, tt.wantCalls)
		})
	}
}

func TestPublisher_PartialFailureNotRetried(t *testing.T) {
	bus := &fakeBus{output: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
	}}
	p := newTestPublisher(bus)

	err := p.Publish(context.Background(), events.NewAchievementUnlocked("u1", "first-breath", ts))

	assert.ErrorContains(t, err, "1 events failed")
	assert.Len(t, bus.calls, 1)
}

func TestPublisher_Empty(t *testing.T) {
	bus := &fakeBus{}
	require.NoError(t, newTestPublisher(bus).PublishBatch(context.Background(), nil))
	assert.Empty(t, bus.calls)
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop())
	assert.NoError(t, p.Publish(context.Background(), events.NewFavoriteRemoved("u1", "4-7-8", ts)))
}
