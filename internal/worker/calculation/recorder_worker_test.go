package calculation_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/worker/calculation"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockCalculationRepository is a mock of CalculationRepository
type MockCalculationRepository struct {
	mock.Mock
}

func (m *MockCalculationRepository) InsertBatch(ctx context.Context, records []domain.CalculationRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockCalculationRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

type fakeStats struct {
	calls int
}

func (f *fakeStats) RefreshStatistics(context.Context) (*domain.Statistics, error) {
	f.calls++
	return &domain.Statistics{}, nil
}

const group = "calculation-recorders"

func eventMessage(t *testing.T, id string, record domain.CalculationRecord) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(domain.CalculationCompletedEvent{Record: record})
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func TestRecorderWorker_ProcessBatch(t *testing.T) {
	stream := new(MockStreamRepository)
	calcRepo := new(MockCalculationRepository)
	stats := &fakeStats{}

	rec := domain.CalculationRecord{
		ID:              uuid.New(),
		SessionMinutes:  480,
		DistanceKm:      50,
		DistanceSource:  domain.SourceOSRM,
		AnnualSavings:   12010,
		SessionsPerYear: 5,
		CreatedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	messages := []domain.StreamMessage{
		eventMessage(t, "1-0", rec),
		{ID: "2-0", Data: "{not json"},
		{ID: "3-0"},
	}

	stream.On("ConsumeBatch", mock.Anything, domain.StreamCalculationCompleted, group, mock.Anything, 10).Return(messages, nil)
	stream.On("AckMessages", mock.Anything, domain.StreamCalculationCompleted, group, []string{"2-0", "3-0"}).Return(nil)
	stream.On("AckMessages", mock.Anything, domain.StreamCalculationCompleted, group, []string{"1-0"}).Return(nil)
	calcRepo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(records []domain.CalculationRecord) bool {
		return len(records) == 1 && records[0].ID == rec.ID && records[0].AnnualSavings == 12010
	})).Return(nil)

	w := calculation.NewRecorderWorker(stream, calcRepo, stats, group, 10, zap.NewNop())
	n, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, stats.calls)
	stream.AssertExpectations(t)
	calcRepo.AssertExpectations(t)
}

func TestRecorderWorker_InsertFailureKeepsMessagesPending(t *testing.T) {
	stream := new(MockStreamRepository)
	calcRepo := new(MockCalculationRepository)
	stats := &fakeStats{}

	rec := domain.CalculationRecord{ID: uuid.New(), SessionMinutes: 480}
	messages := []domain.StreamMessage{eventMessage(t, "1-0", rec)}

	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(messages, nil).Once()
	calcRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(stderrors.New("db down")).Once()

	w := calculation.NewRecorderWorker(stream, calcRepo, stats, group, 10, zap.NewNop()).
		WithPendingMinIdle(time.Minute)
	_, err := w.ProcessBatch(context.Background())

	assert.Error(t, err)
	stream.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// база вернулась: та же пачка забирается из PEL и записывается
	stream.On("ClaimPending", mock.Anything, domain.StreamCalculationCompleted, group, mock.Anything, time.Minute, 10).
		Return(messages, nil).Once()
	calcRepo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(records []domain.CalculationRecord) bool {
		return len(records) == 1 && records[0].ID == rec.ID
	})).Return(nil).Once()
	stream.On("AckMessages", mock.Anything, domain.StreamCalculationCompleted, group, []string{"1-0"}).Return(nil).Once()

	n, err := w.ProcessPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, stats.calls)
	stream.AssertExpectations(t)
	calcRepo.AssertExpectations(t)
}

func TestRecorderWorker_StartReclaimsPendingMessages(t *testing.T) {
	stream := new(MockStreamRepository)
	calcRepo := new(MockCalculationRepository)

	rec := domain.CalculationRecord{ID: uuid.New(), SessionMinutes: 90}
	pending := []domain.StreamMessage{eventMessage(t, "7-0", rec)}
	recorded := make(chan struct{})

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamCalculationCompleted, group).Return(nil)
	stream.On("ClaimPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(pending, nil).Once()
	stream.On("ClaimPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)
	calcRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(nil).Once()
	stream.On("AckMessages", mock.Anything, mock.Anything, mock.Anything, []string{"7-0"}).
		Run(func(mock.Arguments) { close(recorded) }).
		Return(nil).Once()
	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(5 * time.Millisecond) }).
		Return(nil, nil)

	w := calculation.NewRecorderWorker(stream, calcRepo, nil, group, 10, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	select {
	case <-recorded:
	case <-time.After(time.Second):
		t.Fatal("pending message was not recorded")
	}
	require.NoError(t, w.Stop())
	assert.NoError(t, <-done)
	calcRepo.AssertExpectations(t)
}

func TestRecorderWorker_MissingIDIsSkipped(t *testing.T) {
	stream := new(MockStreamRepository)
	calcRepo := new(MockCalculationRepository)

	messages := []domain.StreamMessage{eventMessage(t, "5-0", domain.CalculationRecord{SessionMinutes: 90})}

	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(messages, nil)
	stream.On("AckMessages", mock.Anything, mock.Anything, mock.Anything, []string{"5-0"}).Return(nil)

	w := calculation.NewRecorderWorker(stream, calcRepo, nil, group, 10, zap.NewNop())
	n, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	calcRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestRecorderWorker_EmptyBatch(t *testing.T) {
	stream := new(MockStreamRepository)
	calcRepo := new(MockCalculationRepository)

	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	w := calculation.NewRecorderWorker(stream, calcRepo, nil, group, 0, zap.NewNop())
	n, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecorderWorker_StartStop(t *testing.T) {
	stream := new(MockStreamRepository)
	calcRepo := new(MockCalculationRepository)

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamCalculationCompleted, group).Return(nil)
	stream.On("ClaimPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(5 * time.Millisecond) }).
		Return(nil, nil)

	w := calculation.NewRecorderWorker(stream, calcRepo, nil, group, 10, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRecorderWorker_ConsumerGroupFailure(t *testing.T) {
	stream := new(MockStreamRepository)
	stream.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("redis down"))

	w := calculation.NewRecorderWorker(stream, new(MockCalculationRepository), nil, group, 10, zap.NewNop())
	assert.Error(t, w.Start(context.Background()))
}
