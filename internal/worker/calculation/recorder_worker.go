// Package calculation - запись завершённых расчётов из Redis Stream в Postgres
package calculation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/worker"
)

const (
	defaultBatchSize = 50
	errorBackoff     = time.Second

	// DefaultPendingMinIdle - сколько сообщение должно провисеть в PEL, чтобы его забрал другой consumer
	DefaultPendingMinIdle = 30 * time.Second
)

// StatsRefresher - пересчёт статистики после записи пачки
type StatsRefresher interface {
	RefreshStatistics(ctx context.Context) (*domain.Statistics, error)
}

// RecorderWorker читает stream:calculation:completed и пишет calculation_log
type RecorderWorker struct {
	*worker.BaseWorker
	streamRepo    repository.StreamRepository
	calcRepo      repository.CalculationRepository
	stats         StatsRefresher
	consumerGroup string
	consumerName  string
	batchSize     int
	minIdle       time.Duration
}

// NewRecorderWorker - stats может быть nil
func NewRecorderWorker(
	streamRepo repository.StreamRepository,
	calcRepo repository.CalculationRepository,
	stats StatsRefresher,
	consumerGroup string,
	batchSize int,
	logger *zap.Logger,
) *RecorderWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &RecorderWorker{
		BaseWorker:    worker.NewBaseWorker("calculation-recorder", logger),
		streamRepo:    streamRepo,
		calcRepo:      calcRepo,
		stats:         stats,
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:     batchSize,
		minIdle:       DefaultPendingMinIdle,
	}
}

// WithPendingMinIdle - порог простоя для повторной обработки неподтверждённых сообщений
func (w *RecorderWorker) WithPendingMinIdle(d time.Duration) *RecorderWorker {
	if d > 0 {
		w.minIdle = d
	}
	return w
}

// Start запускает цикл чтения до Stop или отмены контекста
func (w *RecorderWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting calculation recorder",
		zap.String("consumer_group", w.consumerGroup),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCalculationCompleted, w.consumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// сообщения, оставшиеся неподтверждёнными после сбоя или перезапуска
	lastReclaim := time.Now()
	w.reclaim(ctx)

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		if time.Since(lastReclaim) >= w.minIdle {
			lastReclaim = time.Now()
			w.reclaim(ctx)
		}

		if _, err := w.ProcessBatch(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error("Failed to process batch", zap.Error(err))

			select {
			case <-time.After(errorBackoff):
			case <-w.StopChan():
			case <-ctx.Done():
			}
		}
	}
}

// reclaim обрабатывает зависшие сообщения, пока они есть; ошибки только логируются
func (w *RecorderWorker) reclaim(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.ProcessPending(ctx)
		if err != nil {
			if ctx.Err() == nil {
				w.Logger().Warn("Failed to process pending messages", zap.Error(err))
			}
			return
		}
		if n < w.batchSize {
			return
		}
	}
}

// ProcessPending забирает из PEL сообщения, простаивающие дольше minIdle, и обрабатывает их как обычную пачку.
// Повторная запись безопасна: calculation_log игнорирует дубликаты по id.
func (w *RecorderWorker) ProcessPending(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ClaimPending(ctx, domain.StreamCalculationCompleted, w.consumerGroup, w.consumerName, w.minIdle, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to claim pending messages: %w", err)
	}
	return w.record(ctx, messages)
}

// ProcessBatch читает пачку новых событий, сохраняет и подтверждает; возвращает число прочитанных сообщений.
// Битые сообщения подтверждаются и пропускаются, при ошибке записи сообщения остаются неподтверждёнными
// до ProcessPending.
func (w *RecorderWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamCalculationCompleted, w.consumerGroup, w.consumerName, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	return w.record(ctx, messages)
}

// record сохраняет пачку и подтверждает её; при ошибке записи сообщения остаются в PEL
func (w *RecorderWorker) record(ctx context.Context, messages []domain.StreamMessage) (int, error) {
	logger := w.Logger()

	if len(messages) == 0 {
		return 0, nil
	}

	records := make([]domain.CalculationRecord, 0, len(messages))
	validIDs := make([]string, 0, len(messages))
	badIDs := make([]string, 0)

	for _, msg := range messages {
		record, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			badIDs = append(badIDs, msg.ID)
			continue
		}
		records = append(records, *record)
		validIDs = append(validIDs, msg.ID)
	}

	// битые сообщения подтверждаем сразу, чтобы не застревали
	if len(badIDs) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamCalculationCompleted, w.consumerGroup, badIDs); err != nil {
			logger.Error("Failed to ack malformed messages", zap.Error(err))
		}
	}

	if len(records) == 0 {
		return len(messages), nil
	}

	if err := w.calcRepo.InsertBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to insert calculations: %w", err)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamCalculationCompleted, w.consumerGroup, validIDs); err != nil {
		// повторная запись безопасна: ON CONFLICT (id) DO NOTHING
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	if w.stats != nil {
		if _, err := w.stats.RefreshStatistics(ctx); err != nil {
			logger.Warn("Failed to refresh statistics", zap.Error(err))
		}
	}

	logger.Info("Batch recorded",
		zap.Int("recorded", len(records)),
		zap.Int("skipped", len(badIDs)))

	return len(messages), nil
}

func parseMessage(msg domain.StreamMessage) (*domain.CalculationRecord, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.CalculationCompletedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Record.ID == uuid.Nil {
		return nil, fmt.Errorf("event without calculation id")
	}
	if event.Record.CreatedAt.IsZero() {
		event.Record.CreatedAt = time.Now().UTC()
	}

	return &event.Record, nil
}
