package session

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const defaultCleanupInterval = 1 * time.Minute

var (
	sessionCleanupRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_session_cleanup_runs_total",
		Help: "Total number of session cleanup runs grouped by result.",
	}, []string{"result"})
	sessionCleanupEndedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_session_cleanup_ended_total",
		Help: "Total number of sessions ended by the cleanup worker.",
	})
	sessionCleanupLastEnded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_session_cleanup_last_ended",
		Help: "Number of sessions ended during the last cleanup run.",
	})
)

// CleanupOptions задает параметры воркера очистки сессий.
type CleanupOptions struct {
	Logger   *log.Entry
	Interval time.Duration
}

// CleanupOption настраивает CleanupWorker.
type CleanupOption func(*CleanupOptions)

// WithCleanupLogger задает logger воркера.
func WithCleanupLogger(logger *log.Entry) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Logger = logger
	}
}

// WithCleanupInterval задает интервал между циклами очистки.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Interval = interval
	}
}

// CleanupWorker периодически завершает неактивные сессии.
type CleanupWorker struct {
	manager  *Manager
	logger   *log.Entry
	interval time.Duration
}

// NewCleanupWorker создает воркер очистки сессий.
func NewCleanupWorker(manager *Manager, options ...CleanupOption) *CleanupWorker {
	opts := CleanupOptions{Interval: defaultCleanupInterval}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "session-cleanup-worker")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultCleanupInterval
	}

	return &CleanupWorker{
		manager:  manager,
		logger:   logger,
		interval: opts.Interval,
	}
}

// Run запускает периодическую очистку до отмены ctx.
func (w *CleanupWorker) Run(ctx context.Context) {
	if w.manager == nil {
		w.logger.Warn("session cleanup worker is disabled: manager is nil")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx, time.Now().UTC())
		}
	}
}

func (w *CleanupWorker) sweep(ctx context.Context, now time.Time) {
	ended, err := w.manager.SweepExpired(ctx, now)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		sessionCleanupRunsTotal.WithLabelValues("error").Inc()
		w.logger.WithError(err).Warn("session cleanup run failed")
		return
	}

	sessionCleanupRunsTotal.WithLabelValues("ok").Inc()
	sessionCleanupLastEnded.Set(float64(ended))
	if ended > 0 {
		sessionCleanupEndedTotal.Add(float64(ended))
		w.logger.WithField("ended", ended).Info("session cleanup completed")
	}
}
