package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
)

// Emitter записывает именованные события сессии в кольцевой буфер на
// EventBufferCap записей, персистируя буфер целиком на каждый вызов, и
// опционально пересылает события внешним приёмникам. Отсутствующий приёмник
// не ошибка; ошибка приёмника логируется и не распространяется.
type Emitter struct {
	storage domain.SlotStorage
	slot    string
	logger  *log.Entry
	sinks   []domain.AnalyticsSink
	metrics *metrics.StorefrontMetrics

	mu     sync.Mutex
	events []domain.AnalyticsEvent
}

// Option настраивает Emitter.
type Option func(*Emitter)

// WithSink регистрирует внешний приёмник событий; nil игнорируется.
func WithSink(sink domain.AnalyticsSink) Option {
	return func(e *Emitter) {
		if sink != nil {
			e.sinks = append(e.sinks, sink)
		}
	}
}

// WithMetrics подключает счётчики Prometheus.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

// NewEmitter создаёт эмиттер событий для сессии.
func NewEmitter(storage domain.SlotStorage, sessionID string, logger *log.Entry, options ...Option) *Emitter {
	if logger == nil {
		logger = log.WithField("component", "analytics")
	}
	emitter := &Emitter{
		storage: storage,
		slot:    domain.SessionSlot(sessionID, domain.SlotAnalyticsEvents),
		logger:  logger.WithField("session_id", sessionID),
	}
	for _, option := range options {
		option(emitter)
	}
	return emitter
}

// Load регидрирует буфер событий; повреждённый снапшот приравнивается к
// отсутствующему.
func (e *Emitter) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, found, err := e.storage.Load(ctx, e.slot)
	if err != nil {
		e.logger.WithError(err).Warn("failed to load analytics buffer, starting empty")
		return
	}
	if !found {
		return
	}

	var events []domain.AnalyticsEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		e.logger.WithError(err).Warn("malformed analytics buffer, resetting to empty")
		return
	}
	if len(events) > domain.EventBufferCap {
		events = events[len(events)-domain.EventBufferCap:]
	}
	e.events = events
}

// Record добавляет событие, вытесняет самое старое при переполнении,
// перезаписывает буфер в хранилище и пересылает событие приёмникам.
func (e *Emitter) Record(ctx context.Context, name string, payload map[string]any) domain.AnalyticsEvent {
	event := domain.AnalyticsEvent{
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	e.mu.Lock()
	e.events = append(e.events, event)
	if len(e.events) > domain.EventBufferCap {
		e.events = e.events[len(e.events)-domain.EventBufferCap:]
	}
	e.persistLocked(ctx)
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.RecordAnalyticsEvent(name)
	}

	for _, sink := range e.sinks {
		if err := sink.Forward(event); err != nil {
			e.logger.WithError(err).WithFields(log.Fields{
				"sink":  sink.Name(),
				"event": name,
			}).Warn("failed to forward analytics event")
			if e.metrics != nil {
				e.metrics.RecordSinkFailure(sink.Name())
			}
		}
	}

	return event
}

// persistLocked перезаписывает весь буфер; вызывается под mu.
func (e *Emitter) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(e.events)
	if err != nil {
		e.logger.WithError(err).Error("failed to marshal analytics buffer")
		return
	}
	if err := e.storage.Save(ctx, e.slot, raw); err != nil {
		e.logger.WithError(err).Warn("failed to persist analytics buffer, in-memory state stays authoritative")
	}
}

// Events возвращает копию буфера в порядке записи (старые первыми).
func (e *Emitter) Events() []domain.AnalyticsEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.AnalyticsEvent, len(e.events))
	copy(out, e.events)
	return out
}
