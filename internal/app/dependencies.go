package app

import (
	"context"
	"io"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/abtest"
	"github.com/vladislavdragonenkov/bakery/internal/analytics"
	"github.com/vladislavdragonenkov/bakery/internal/catalog"
	"github.com/vladislavdragonenkov/bakery/internal/chat"
	"github.com/vladislavdragonenkov/bakery/internal/delivery"
	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/forms"
	"github.com/vladislavdragonenkov/bakery/internal/health"
	"github.com/vladislavdragonenkov/bakery/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
	"github.com/vladislavdragonenkov/bakery/internal/seo"
	"github.com/vladislavdragonenkov/bakery/internal/session"
	"github.com/vladislavdragonenkov/bakery/internal/version"
)

// siteSessionID — служебная сессия для событий вне контекста посетителя
// (отправки форм, сводки позиций).
const siteSessionID = "site"

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Storage    domain.SlotStorage
	Metrics    *metrics.StorefrontMetrics
	Catalog    *catalog.Catalog
	Calculator *delivery.Calculator
	Forms      *forms.Service
	Sessions   *session.Manager
	Cleanup    *session.CleanupWorker
	SEO        *seo.Poller
	Health     *health.Handler
	Logger     *log.Entry

	kafkaProducer sarama.SyncProducer
	storageCloser io.Closer
}

// NewDependencies создаёт и инициализирует все зависимости приложения.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	storage, storageCloser, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	storefrontMetrics := metrics.NewStorefrontMetrics()

	// Kafka опционален: без брокеров аналитика остаётся в хранилище слотов.
	kafkaProducer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err != nil {
		kafkaProducer = nil
	}

	var sinkFactory session.SinkFactory
	if kafkaProducer != nil {
		producer := kafkaProducer
		sinkFactory = func(sessionID string) domain.AnalyticsSink {
			return kafka.NewSinkWithProducer(producer, sessionID)
		}
	} else {
		logSink := analytics.NewLogSink(logger.WithField("component", "analytics-log-sink"))
		sinkFactory = func(string) domain.AnalyticsSink {
			return logSink
		}
	}

	assigner := abtest.NewAssigner(storage, logger.WithField("component", "abtest"))

	sessionOptions := []session.Option{
		session.WithLogger(logger.WithField("component", "session_manager")),
		session.WithTTL(cfg.SessionTTL),
		session.WithMetrics(storefrontMetrics),
		session.WithChatOptions(chat.WithNudgeDelay(cfg.ChatNudgeDelay)),
	}
	if sinkFactory != nil {
		sessionOptions = append(sessionOptions, session.WithSinkFactory(sinkFactory))
	}
	sessions := session.NewManager(storage, assigner, sessionOptions...)

	cleanup := session.NewCleanupWorker(
		sessions,
		session.WithCleanupLogger(logger.WithField("component", "session-cleanup-worker")),
	)

	siteEmitter := analytics.NewEmitter(
		storage,
		siteSessionID,
		logger.WithField("component", "site_analytics"),
		analytics.WithMetrics(storefrontMetrics),
	)
	siteEmitter.Load(ctx)

	productCatalog := catalog.New()
	formsService := forms.NewService(
		siteEmitter,
		productCatalog,
		forms.WithLogger(logger.WithField("component", "forms_service")),
		forms.WithMetrics(storefrontMetrics),
	)

	seoPoller := seo.NewPoller(
		seo.WithLogger(logger.WithField("component", "seo_poller")),
		seo.WithInterval(cfg.SEOInterval),
		seo.WithMetrics(storefrontMetrics),
		seo.WithRecorder(siteEmitter),
	)

	healthHandler := health.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", health.NewSlotStorageChecker("storage", storage))
	if pinger, ok := storage.(health.Pinger); ok {
		healthHandler.RegisterChecker("storage-connection", health.NewPingChecker("storage-connection", pinger))
	}

	return &Dependencies{
		Storage:       storage,
		Metrics:       storefrontMetrics,
		Catalog:       productCatalog,
		Calculator:    delivery.NewCalculator(domain.DefaultPricing()),
		Forms:         formsService,
		Sessions:      sessions,
		Cleanup:       cleanup,
		SEO:           seoPoller,
		Health:        healthHandler,
		Logger:        logger,
		kafkaProducer: kafkaProducer,
		storageCloser: storageCloser,
	}, nil
}

// Close освобождает внешние соединения.
func (d *Dependencies) Close() {
	closeKafka(d.kafkaProducer, d.Logger)

	if d.storageCloser != nil {
		if err := d.storageCloser.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close storage")
		}
	}
}
