package analytics

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// LogSink пишет события в структурный лог. Используется как диагностический
// приёмник по умолчанию, когда внешние системы аналитики не настроены.
type LogSink struct {
	logger *log.Entry
}

// NewLogSink создаёт приёмник поверх logrus.
func NewLogSink(logger *log.Entry) *LogSink {
	if logger == nil {
		logger = log.WithField("component", "analytics-log-sink")
	}
	return &LogSink{logger: logger}
}

// Name идентифицирует приёмник.
func (s *LogSink) Name() string { return "log" }

// Forward логирует событие; никогда не возвращает ошибку.
func (s *LogSink) Forward(event domain.AnalyticsEvent) error {
	s.logger.WithFields(log.Fields{
		"event":   event.Name,
		"payload": event.Payload,
	}).Debug("analytics event")
	return nil
}

var _ domain.AnalyticsSink = (*LogSink)(nil)
