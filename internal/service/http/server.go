package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/catalog"
	"github.com/vladislavdragonenkov/bakery/internal/delivery"
	"github.com/vladislavdragonenkov/bakery/internal/forms"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
	"github.com/vladislavdragonenkov/bakery/internal/seo"
	"github.com/vladislavdragonenkov/bakery/internal/session"
)

// SessionHeader — заголовок с идентификатором сессии посетителя.
// Отсутствующий или незнакомый идентификатор означает новую сессию,
// выданный идентификатор возвращается в том же заголовке ответа.
const SessionHeader = "X-Session-Id"

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Options задает зависимости HTTP сервера витрины.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.StorefrontMetrics
	SEO     *seo.Poller
}

// Option настраивает Server.
type Option func(*Options)

// WithLogger задает logger сервера.
func WithLogger(logger *log.Entry) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithMetrics подключает метрики запросов витрины.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithSEOPoller подключает поллер позиций для endpoint со сводкой.
func WithSEOPoller(poller *seo.Poller) Option {
	return func(o *Options) { o.SEO = poller }
}

// Server — JSON API витрины поверх gorilla/mux.
type Server struct {
	sessions   *session.Manager
	catalog    *catalog.Catalog
	calculator *delivery.Calculator
	forms      *forms.Service
	logger     *log.Entry
	metrics    *metrics.StorefrontMetrics
	seo        *seo.Poller

	httpServer *http.Server
}

// NewServer создает HTTP сервер витрины.
func NewServer(
	sessions *session.Manager,
	productCatalog *catalog.Catalog,
	calculator *delivery.Calculator,
	formsService *forms.Service,
	options ...Option,
) *Server {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "http_server")
	}

	return &Server{
		sessions:   sessions,
		catalog:    productCatalog,
		calculator: calculator,
		forms:      formsService,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		seo:        opts.SEO,
	}
}

// Router собирает маршруты API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/seo/positions", s.handleSearchPositions).Methods(http.MethodGet)

	scoped := api.NewRoute().Subrouter()
	scoped.Use(s.sessionMiddleware)

	scoped.HandleFunc("/cart", s.handleCartGet).Methods(http.MethodGet)
	scoped.HandleFunc("/cart/items", s.handleCartAdd).Methods(http.MethodPost)

	scoped.HandleFunc("/delivery/quote", s.handleDeliveryQuote).Methods(http.MethodPost)

	scoped.HandleFunc("/compare", s.handleCompareGet).Methods(http.MethodGet)
	scoped.HandleFunc("/compare", s.handleCompareClear).Methods(http.MethodDelete)
	scoped.HandleFunc("/compare/toggle", s.handleCompareToggle).Methods(http.MethodPost)
	scoped.HandleFunc("/compare/table", s.handleCompareTable).Methods(http.MethodGet)

	scoped.HandleFunc("/abtest", s.handleABTest).Methods(http.MethodGet)

	scoped.HandleFunc("/chat/open", s.handleChatOpen).Methods(http.MethodPost)
	scoped.HandleFunc("/chat/question", s.handleChatQuestion).Methods(http.MethodPost)
	scoped.HandleFunc("/chat/message", s.handleChatMessage).Methods(http.MethodPost)
	scoped.HandleFunc("/chat/transcript", s.handleChatTranscript).Methods(http.MethodGet)

	scoped.HandleFunc("/forms/order", s.handleOrderForm).Methods(http.MethodPost)
	scoped.HandleFunc("/forms/review", s.handleReviewForm).Methods(http.MethodPost)
	scoped.HandleFunc("/forms/feedback", s.handleFeedbackForm).Methods(http.MethodPost)
	scoped.HandleFunc("/forms/error-report", s.handleErrorReportForm).Methods(http.MethodPost)
	scoped.HandleFunc("/forms/subscribe", s.handleSubscribeForm).Methods(http.MethodPost)

	scoped.HandleFunc("/analytics/events", s.handleAnalyticsList).Methods(http.MethodGet)
	scoped.HandleFunc("/analytics/events", s.handleAnalyticsRecord).Methods(http.MethodPost)

	scoped.HandleFunc("/session", s.handleSessionEnd).Methods(http.MethodDelete)

	return r
}

// Start запускает HTTP сервер на указанном адресе.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	s.logger.WithField("addr", addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Warn("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
