package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

func testEvent(name string) domain.AnalyticsEvent {
	return domain.AnalyticsEvent{
		Name:      name,
		Payload:   map[string]any{"page": "/catalog"},
		Timestamp: time.Now().UTC(),
	}
}

func TestSink_Forward(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	sink := NewSinkWithProducer(mockProducer, "session-1")

	mockProducer.ExpectSendMessageAndSucceed()

	if err := sink.Forward(testEvent("cta_click")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSink_ForwardError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	sink := NewSinkWithProducer(mockProducer, "session-1")

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	if err := sink.Forward(testEvent("cta_click")); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSink_Name(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	sink := NewSinkWithProducer(mockProducer, "session-1")

	if sink.Name() != "kafka" {
		t.Fatalf("unexpected sink name: %s", sink.Name())
	}

	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
}
