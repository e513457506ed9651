package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	httpapi "github.com/vladislavdragonenkov/bakery/internal/service/http"
)

const shutdownTimeout = 5 * time.Second

// Run собирает зависимости, запускает фоновые воркеры и HTTP серверы и
// блокируется до отмены ctx или падения API сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		deps.Cleanup.Run(workerCtx)
	}()
	go func() {
		defer wg.Done()
		deps.SEO.Run(workerCtx)
	}()

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, deps)

	apiServer := httpapi.NewServer(
		deps.Sessions,
		deps.Catalog,
		deps.Calculator,
		deps.Forms,
		httpapi.WithLogger(logger.WithField("component", "http_server")),
		httpapi.WithMetrics(deps.Metrics),
		httpapi.WithSEOPoller(deps.SEO),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("api server shutdown with error")
		}

		cancelWorkers()
		wg.Wait()
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()

	case err := <-errCh:
		cancelWorkers()
		wg.Wait()
		shutdownHTTP(metricsSrv, logger)
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, deps *Dependencies) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", deps.Health)
	mux.HandleFunc("/readyz", deps.Health.ReadinessHandler)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
