package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics содержит метрики витрины.
type StorefrontMetrics struct {
	// Счётчики операций
	analyticsEvents  *prometheus.CounterVec
	cartItemsAdded   prometheus.Counter
	deliveryQuotes   *prometheus.CounterVec
	compareToggles   *prometheus.CounterVec
	chatMessages     prometheus.Counter
	formSubmissions  *prometheus.CounterVec
	sinkForwardFails *prometheus.CounterVec

	// Gauge активных сессий
	activeSessions prometheus.Gauge

	// Позиции в поиске по ключевым запросам
	searchPositions *prometheus.GaugeVec
}

// NewStorefrontMetrics создаёт метрики в default-регистраторе.
func NewStorefrontMetrics() *StorefrontMetrics {
	return NewStorefrontMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStorefrontMetricsWithRegisterer создаёт метрики в заданном регистраторе
// (изолированные регистраторы нужны тестам).
func NewStorefrontMetricsWithRegisterer(registerer prometheus.Registerer) *StorefrontMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StorefrontMetrics{
		analyticsEvents: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_analytics_events_total",
			Help: "Total number of analytics events recorded grouped by event name",
		}, []string{"event"}),
		cartItemsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_cart_items_added_total",
			Help: "Total number of line items added to carts",
		}),
		deliveryQuotes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_delivery_quotes_total",
			Help: "Total number of delivery quote calculations grouped by result",
		}, []string{"result"}),
		compareToggles: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_compare_toggles_total",
			Help: "Total number of compare set toggles grouped by action",
		}, []string{"action"}),
		chatMessages: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_chat_messages_total",
			Help: "Total number of chat messages exchanged",
		}),
		formSubmissions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_form_submissions_total",
			Help: "Total number of form submissions grouped by form and result",
		}, []string{"form", "result"}),
		sinkForwardFails: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_analytics_sink_failures_total",
			Help: "Total number of failed forwards to external analytics sinks",
		}, []string{"sink"}),
		activeSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Number of currently tracked storefront sessions",
		}),
		searchPositions: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "storefront_search_position",
			Help: "Simulated search ranking position per keyword",
		}, []string{"keyword"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerGaugeVec(registerer prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	collector := prometheus.NewGaugeVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.GaugeVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordAnalyticsEvent увеличивает счётчик событий по имени.
func (m *StorefrontMetrics) RecordAnalyticsEvent(name string) {
	m.analyticsEvents.WithLabelValues(name).Inc()
}

// RecordCartItemAdded увеличивает счётчик добавлений в корзину.
func (m *StorefrontMetrics) RecordCartItemAdded() {
	m.cartItemsAdded.Inc()
}

// RecordDeliveryQuote фиксирует результат расчёта доставки.
func (m *StorefrontMetrics) RecordDeliveryQuote(result string) {
	m.deliveryQuotes.WithLabelValues(result).Inc()
}

// RecordCompareToggle фиксирует действие над набором сравнения.
func (m *StorefrontMetrics) RecordCompareToggle(action string) {
	m.compareToggles.WithLabelValues(action).Inc()
}

// RecordChatMessage увеличивает счётчик сообщений чата.
func (m *StorefrontMetrics) RecordChatMessage() {
	m.chatMessages.Inc()
}

// RecordFormSubmission фиксирует отправку формы и её результат.
func (m *StorefrontMetrics) RecordFormSubmission(form, result string) {
	m.formSubmissions.WithLabelValues(form, result).Inc()
}

// RecordSinkFailure фиксирует неудачную пересылку события во внешний приёмник.
func (m *StorefrontMetrics) RecordSinkFailure(sink string) {
	m.sinkForwardFails.WithLabelValues(sink).Inc()
}

// SessionStarted/SessionEnded двигают gauge активных сессий.
func (m *StorefrontMetrics) SessionStarted() { m.activeSessions.Inc() }
func (m *StorefrontMetrics) SessionEnded()   { m.activeSessions.Dec() }

// SetSearchPosition выставляет симулированную позицию по ключевому запросу.
func (m *StorefrontMetrics) SetSearchPosition(keyword string, position int) {
	m.searchPositions.WithLabelValues(keyword).Set(float64(position))
}
