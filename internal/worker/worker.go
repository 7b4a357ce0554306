package worker

import (
	"context"
)

// Worker - фоновая задача с управляемым жизненным циклом
type Worker interface {
	// Start блокируется до Stop или отмены контекста
	Start(ctx context.Context) error

	// Stop сигнализирует о завершении
	Stop() error

	Name() string
}
