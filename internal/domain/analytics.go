package domain

import "time"

// EventBufferCap — максимум хранимых аналитических событий;
// при переполнении вытесняется самое старое (FIFO).
const EventBufferCap = 100

// AnalyticsEvent — именованное событие с произвольной полезной нагрузкой.
// Схема payload зависит от вида события и не валидируется.
type AnalyticsEvent struct {
	Name      string         `json:"name"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
