package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/abtest"
	"github.com/vladislavdragonenkov/bakery/internal/analytics"
	"github.com/vladislavdragonenkov/bakery/internal/cart"
	"github.com/vladislavdragonenkov/bakery/internal/chat"
	"github.com/vladislavdragonenkov/bakery/internal/compare"
	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
)

const defaultSessionTTL = 30 * time.Minute

// Session — состояние одного посетителя витрины: корзина, набор
// сравнения, буфер аналитики, чат и группа A/B теста.
type Session struct {
	ID        string
	Cart      *cart.Store
	Compare   *compare.Set
	Analytics *analytics.Emitter
	Chat      *chat.Conversation
	ABGroup   abtest.Group

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch обновляет момент последней активности сессии.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen возвращает момент последней активности.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SinkFactory создает сток аналитики для новой сессии; nil-результат
// допустим и означает сессию без внешнего стока.
type SinkFactory func(sessionID string) domain.AnalyticsSink

// Options задает параметры менеджера сессий.
type Options struct {
	Logger      *log.Entry
	TTL         time.Duration
	Metrics     *metrics.StorefrontMetrics
	SinkFactory SinkFactory
	ChatOptions []chat.Option
}

// Option настраивает Manager.
type Option func(*Options)

// WithLogger задает logger менеджера.
func WithLogger(logger *log.Entry) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithTTL задает время жизни неактивной сессии.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) { o.TTL = ttl }
}

// WithMetrics подключает метрики активных сессий.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithSinkFactory задает фабрику стоков аналитики для новых сессий.
func WithSinkFactory(factory SinkFactory) Option {
	return func(o *Options) { o.SinkFactory = factory }
}

// WithChatOptions передает настройки чата новым сессиям.
func WithChatOptions(options ...chat.Option) Option {
	return func(o *Options) { o.ChatOptions = options }
}

// Manager создает и отслеживает сессии посетителей. Состояние сессии
// живет в памяти, снимки пишутся в хранилище слотов, неактивные сессии
// завершает воркер очистки.
type Manager struct {
	storage  domain.SlotStorage
	assigner *abtest.Assigner
	logger   *log.Entry
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager создает менеджер сессий.
func NewManager(storage domain.SlotStorage, assigner *abtest.Assigner, options ...Option) *Manager {
	opts := Options{TTL: defaultSessionTTL}
	for _, option := range options {
		option(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "session_manager")
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultSessionTTL
	}

	return &Manager{
		storage:  storage,
		assigner: assigner,
		logger:   opts.Logger,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate возвращает сессию по идентификатору, создавая новую при
// необходимости. Пустой идентификатор означает нового посетителя и
// получает свежий uuid.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (*Session, bool) {
	if sessionID != "" {
		m.mu.RLock()
		existing, ok := m.sessions[sessionID]
		m.mu.RUnlock()
		if ok {
			existing.Touch(time.Now().UTC())
			return existing, false
		}
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sessionID]; ok {
		existing.Touch(time.Now().UTC())
		return existing, false
	}

	session := m.buildSession(ctx, sessionID)
	m.sessions[sessionID] = session

	if m.opts.Metrics != nil {
		m.opts.Metrics.SessionStarted()
	}
	m.logger.WithField("session_id", sessionID).Info("session started")

	return session, true
}

// buildSession восстанавливает состояние сессии из хранилища слотов.
func (m *Manager) buildSession(ctx context.Context, sessionID string) *Session {
	sessionLogger := m.logger.WithField("session_id", sessionID)

	emitterOptions := []analytics.Option{}
	if m.opts.Metrics != nil {
		emitterOptions = append(emitterOptions, analytics.WithMetrics(m.opts.Metrics))
	}
	if m.opts.SinkFactory != nil {
		if sink := m.opts.SinkFactory(sessionID); sink != nil {
			emitterOptions = append(emitterOptions, analytics.WithSink(sink))
		}
	}

	emitter := analytics.NewEmitter(m.storage, sessionID, sessionLogger, emitterOptions...)
	emitter.Load(ctx)

	cartStore := cart.NewStore(m.storage, sessionID, sessionLogger)
	cartStore.Load(ctx)

	var group abtest.Group
	if m.assigner != nil {
		var fresh bool
		group, fresh = m.assigner.Assign(ctx, sessionID)
		if fresh {
			emitter.Record(ctx, "ab_test_assignment", map[string]any{
				"test_name": abtest.TestName,
				"variant":   string(group),
			})
		}
	}

	session := &Session{
		ID:        sessionID,
		Cart:      cartStore,
		Compare:   compare.NewSet(),
		Analytics: emitter,
		ABGroup:   group,
	}
	session.Chat = chat.NewConversation(m.storage, sessionID, emitter, m.opts.ChatOptions...)
	session.Touch(time.Now().UTC())

	return session
}

// Get возвращает ранее созданную сессию.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// End завершает сессию: останавливает отложенные задачи чата и удаляет
// слоты сессии из хранилища.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}

	session.Chat.Close()

	for _, slot := range []string{
		domain.SlotCart,
		domain.SlotOrderAmount,
		domain.SlotAnalyticsEvents,
		domain.SlotABTestGroup,
		domain.SlotChatOpened,
	} {
		key := domain.SessionSlot(sessionID, slot)
		if err := m.storage.Delete(ctx, key); err != nil {
			m.logger.WithError(err).WithField("slot", key).Warn("failed to delete session slot")
		}
	}

	if m.opts.Metrics != nil {
		m.opts.Metrics.SessionEnded()
	}
	m.logger.WithField("session_id", sessionID).Info("session ended")

	return nil
}

// SweepExpired завершает все сессии, неактивные дольше TTL.
func (m *Manager) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.RLock()
	var expired []string
	for id, session := range m.sessions {
		if now.Sub(session.LastSeen()) > m.opts.TTL {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	swept := 0
	for _, id := range expired {
		if err := ctx.Err(); err != nil {
			return swept, err
		}
		if err := m.End(ctx, id); err == nil {
			swept++
		}
	}

	return swept, nil
}

// Len возвращает количество активных сессий.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
