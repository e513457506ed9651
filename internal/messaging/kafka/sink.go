package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// TopicAnalyticsEvents — топик аналитических событий витрины.
const TopicAnalyticsEvents = "storefront.analytics.events"

// sinkName идентифицирует приёмник в логах и метриках.
const sinkName = "kafka"

// envelope — сериализуемая форма события для топика.
type envelope struct {
	SessionID string         `json:"session_id"`
	Name      string         `json:"name"`
	Payload   map[string]any `json:"payload,omitempty"`
	UnixTime  int64          `json:"unix_time"`
}

// Sink пересылает аналитические события сессии в Kafka.
// Приёмник опционален: создаётся только при настроенных брокерах.
type Sink struct {
	producer  sarama.SyncProducer
	sessionID string
	topic     string
	logger    *log.Entry
}

// NewProducer создаёт синхронный идемпотентный producer; один producer
// обслуживает приёмники всех сессий.
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // требование идемпотентного продюсера

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// NewSink создаёт producer и оборачивает его в приёмник для сессии.
func NewSink(brokers []string, sessionID string) (*Sink, error) {
	producer, err := NewProducer(brokers)
	if err != nil {
		return nil, err
	}
	return NewSinkWithProducer(producer, sessionID), nil
}

// NewSinkWithProducer оборачивает готовый producer (нужен тестам).
func NewSinkWithProducer(producer sarama.SyncProducer, sessionID string) *Sink {
	return &Sink{
		producer:  producer,
		sessionID: sessionID,
		topic:     TopicAnalyticsEvents,
		logger:    log.WithField("component", "kafka-analytics-sink"),
	}
}

// Name идентифицирует приёмник.
func (s *Sink) Name() string { return sinkName }

// Forward публикует событие в топик, ключ — идентификатор сессии,
// чтобы события одной сессии попадали в одну партицию.
func (s *Sink) Forward(event domain.AnalyticsEvent) error {
	raw, err := json.Marshal(envelope{
		SessionID: s.sessionID,
		Name:      event.Name,
		Payload:   event.Payload,
		UnixTime:  event.Timestamp.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal analytics event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     s.topic,
		Key:       sarama.StringEncoder(s.sessionID),
		Value:     sarama.ByteEncoder(raw),
		Timestamp: event.Timestamp,
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send analytics event: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"event":     event.Name,
		"partition": partition,
		"offset":    offset,
	}).Debug("analytics event sent to kafka")

	return nil
}

// Close закрывает producer.
func (s *Sink) Close() error {
	if err := s.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ domain.AnalyticsSink = (*Sink)(nil)
