package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// Sender — сторона сообщения в переписке.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message — одно сообщение переписки.
type Message struct {
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	SentAt time.Time `json:"sent_at"`
}

// Recorder — минимальный контракт аналитики, нужный чату.
type Recorder interface {
	Record(ctx context.Context, name string, payload map[string]any) domain.AnalyticsEvent
}

const (
	defaultReplyDelay    = 1 * time.Second
	defaultFollowUpDelay = 500 * time.Millisecond
	defaultNudgeDelay    = 30 * time.Second
)

// Options задаёт задержки сценария чата.
type Options struct {
	Logger *log.Entry
	// ReplyDelay — имитация задержки ответа бота.
	ReplyDelay time.Duration
	// FollowUpDelay — пауза перед дополнительным сообщением в сценарии custom.
	FollowUpDelay time.Duration
	// NudgeDelay — автонапоминание о чате для новой сессии.
	NudgeDelay time.Duration
}

// Option настраивает Conversation.
type Option func(*Options)

// WithLogger задаёт logger разговора.
func WithLogger(logger *log.Entry) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithReplyDelay задаёт задержку ответа бота.
func WithReplyDelay(d time.Duration) Option {
	return func(o *Options) { o.ReplyDelay = d }
}

// WithFollowUpDelay задаёт паузу перед follow-up сообщением.
func WithFollowUpDelay(d time.Duration) Option {
	return func(o *Options) { o.FollowUpDelay = d }
}

// WithNudgeDelay задаёт задержку автонапоминания.
func WithNudgeDelay(d time.Duration) Option {
	return func(o *Options) { o.NudgeDelay = d }
}

// Conversation — scripted-чат одной сессии: переписка в памяти, флаг
// первого открытия в хранилище, отложенные ответы бота через отменяемый
// планировщик.
type Conversation struct {
	storage    domain.SlotStorage
	openedSlot string
	recorder   Recorder
	logger     *log.Entry
	opts       Options
	sched      *scheduler

	mu         sync.Mutex
	transcript []Message
	opened     bool
}

// NewConversation создаёт чат сессии и планирует автонапоминание.
func NewConversation(storage domain.SlotStorage, sessionID string, recorder Recorder, options ...Option) *Conversation {
	opts := Options{
		ReplyDelay:    defaultReplyDelay,
		FollowUpDelay: defaultFollowUpDelay,
		NudgeDelay:    defaultNudgeDelay,
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "chat")
	}

	c := &Conversation{
		storage:    storage,
		openedSlot: domain.SessionSlot(sessionID, domain.SlotChatOpened),
		recorder:   recorder,
		logger:     opts.Logger.WithField("session_id", sessionID),
		opts:       opts,
		sched:      newScheduler(),
	}

	c.scheduleNudge()
	return c
}

// scheduleNudge автоматически открывает чат спустя NudgeDelay,
// если сессия его ещё не открывала.
func (c *Conversation) scheduleNudge() {
	c.sched.After(c.opts.NudgeDelay, func() {
		ctx := context.Background()
		if c.wasOpened(ctx) {
			return
		}
		c.Open(ctx)
	})
}

// wasOpened проверяет флаг открытия чата в хранилище и в памяти.
func (c *Conversation) wasOpened(ctx context.Context) bool {
	c.mu.Lock()
	opened := c.opened
	c.mu.Unlock()
	if opened {
		return true
	}

	_, found, err := c.storage.Load(ctx, c.openedSlot)
	if err != nil {
		c.logger.WithError(err).Warn("failed to load chat opened flag")
		return false
	}
	return found
}

// Open отмечает чат открытым (однократно на сессию) и фиксирует событие.
func (c *Conversation) Open(ctx context.Context) {
	c.mu.Lock()
	already := c.opened
	c.opened = true
	c.mu.Unlock()
	if already {
		return
	}

	if err := c.storage.Save(ctx, c.openedSlot, []byte("true")); err != nil {
		c.logger.WithError(err).Warn("failed to persist chat opened flag")
	}
	if c.recorder != nil {
		c.recorder.Record(ctx, "chat_opened", nil)
	}
}

// SelectQuestion обрабатывает нажатие кнопки типового вопроса: вопрос
// пользователя попадает в переписку сразу, ответ бота — с задержкой,
// сценарий custom добавляет отложенный follow-up.
func (c *Conversation) SelectQuestion(ctx context.Context, questionType string) (QA, error) {
	qa, ok := LookupQuestion(questionType)
	if !ok {
		return QA{}, domain.ErrUnknownQuestion
	}

	c.append(Message{Text: qa.Question, Sender: SenderUser, SentAt: time.Now().UTC()})

	c.sched.After(c.opts.ReplyDelay, func() {
		c.append(Message{Text: qa.Answer, Sender: SenderBot, SentAt: time.Now().UTC()})
		if questionType == QuestionCustom {
			c.sched.After(c.opts.FollowUpDelay, func() {
				c.append(Message{Text: customFollowUp, Sender: SenderBot, SentAt: time.Now().UTC()})
			})
		}
	})

	if c.recorder != nil {
		c.recorder.Record(ctx, "chat_question", map[string]any{
			"question_type": questionType,
			"question":      qa.Question,
		})
	}

	return qa, nil
}

// SendMessage обрабатывает свободное сообщение пользователя.
func (c *Conversation) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}

	c.append(Message{Text: text, Sender: SenderUser, SentAt: time.Now().UTC()})

	c.sched.After(c.opts.ReplyDelay, func() {
		c.append(Message{Text: BotResponse(text), Sender: SenderBot, SentAt: time.Now().UTC()})
	})

	if c.recorder != nil {
		c.recorder.Record(ctx, "chat_message", map[string]any{
			"direction": "outgoing",
			"length":    len(text),
		})
	}

	return nil
}

func (c *Conversation) append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, msg)
}

// Transcript возвращает копию переписки в хронологическом порядке.
func (c *Conversation) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Close останавливает планировщик: несработавшие ответы и автонапоминание
// отменяются при teardown сессии.
func (c *Conversation) Close() {
	c.sched.Stop()
}
