package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func newIsolatedMetrics(t *testing.T) *StorefrontMetrics {
	t.Helper()
	return NewStorefrontMetricsWithRegisterer(prometheus.NewRegistry())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, c.Write(metric))
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, g.Write(metric))
	return metric.GetGauge().GetValue()
}

func TestNewStorefrontMetrics(t *testing.T) {
	m := newIsolatedMetrics(t)

	require.NotNil(t, m.analyticsEvents)
	require.NotNil(t, m.cartItemsAdded)
	require.NotNil(t, m.deliveryQuotes)
	require.NotNil(t, m.compareToggles)
	require.NotNil(t, m.chatMessages)
	require.NotNil(t, m.formSubmissions)
	require.NotNil(t, m.sinkForwardFails)
	require.NotNil(t, m.activeSessions)
	require.NotNil(t, m.searchPositions)
}

func TestRecordAnalyticsEvent(t *testing.T) {
	m := newIsolatedMetrics(t)

	m.RecordAnalyticsEvent("add_to_cart")
	m.RecordAnalyticsEvent("add_to_cart")
	m.RecordAnalyticsEvent("chat_opened")

	require.Equal(t, 2.0, counterValue(t, m.analyticsEvents.WithLabelValues("add_to_cart")))
	require.Equal(t, 1.0, counterValue(t, m.analyticsEvents.WithLabelValues("chat_opened")))
}

func TestCartAndQuoteCounters(t *testing.T) {
	m := newIsolatedMetrics(t)

	m.RecordCartItemAdded()
	m.RecordCartItemAdded()
	m.RecordDeliveryQuote("ok")
	m.RecordDeliveryQuote("rejected")

	require.Equal(t, 2.0, counterValue(t, m.cartItemsAdded))
	require.Equal(t, 1.0, counterValue(t, m.deliveryQuotes.WithLabelValues("ok")))
	require.Equal(t, 1.0, counterValue(t, m.deliveryQuotes.WithLabelValues("rejected")))
}

func TestSessionGauge(t *testing.T) {
	m := newIsolatedMetrics(t)

	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()

	require.Equal(t, 1.0, gaugeValue(t, m.activeSessions))
}

func TestSetSearchPosition(t *testing.T) {
	m := newIsolatedMetrics(t)

	m.SetSearchPosition("торты минск", 7)
	require.Equal(t, 7.0, gaugeValue(t, m.searchPositions.WithLabelValues("торты минск")))
}

func TestDoubleRegistrationReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewStorefrontMetricsWithRegisterer(registry)
	second := NewStorefrontMetricsWithRegisterer(registry)

	first.RecordCartItemAdded()
	second.RecordCartItemAdded()

	require.Equal(t, 2.0, counterValue(t, second.cartItemsAdded))
}
