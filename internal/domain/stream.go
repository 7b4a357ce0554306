package domain

// Stream names
const (
	StreamCalculationCompleted = "stream:calculation:completed"
)

// CalculationCompletedEvent - событие о завершённом расчёте для журнала
type CalculationCompletedEvent struct {
	Record CalculationRecord `json:"record"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
