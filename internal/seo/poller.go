package seo

import (
	"context"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
)

const (
	defaultPollInterval = 30 * time.Second

	minPosition = 1
	maxPosition = 50
)

// defaultKeywords — отслеживаемые поисковые запросы со стартовыми позициями.
var defaultKeywords = map[string]int{
	"торты на заказ минск": 3,
	"купить капкейки":      7,
	"свадебный торт":       12,
	"печенье на заказ":     18,
}

// Recorder — контракт аналитики для поллера позиций.
type Recorder interface {
	Record(ctx context.Context, name string, payload map[string]any) domain.AnalyticsEvent
}

// Options задает параметры поллера позиций.
type Options struct {
	Logger   *log.Entry
	Interval time.Duration
	Keywords map[string]int
	Metrics  *metrics.StorefrontMetrics
	Recorder Recorder
	// StepFn возвращает сдвиг позиции за один цикл; подменяется тестами.
	StepFn func() int
}

// Option настраивает Poller.
type Option func(*Options)

// WithLogger задает logger поллера.
func WithLogger(logger *log.Entry) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithInterval задает период обновления позиций.
func WithInterval(interval time.Duration) Option {
	return func(o *Options) { o.Interval = interval }
}

// WithKeywords задает запросы и стартовые позиции.
func WithKeywords(keywords map[string]int) Option {
	return func(o *Options) {
		if len(keywords) > 0 {
			o.Keywords = keywords
		}
	}
}

// WithMetrics подключает gauge позиций.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithRecorder подключает аналитику.
func WithRecorder(recorder Recorder) Option {
	return func(o *Options) { o.Recorder = recorder }
}

// WithStepFn подменяет случайный сдвиг позиции.
func WithStepFn(step func() int) Option {
	return func(o *Options) {
		if step != nil {
			o.StepFn = step
		}
	}
}

// Poller имитирует опрос позиций сайта в поисковой выдаче: на каждом
// цикле позиция запроса сдвигается на один пункт в случайную сторону
// в пределах [1, 50]. Настоящего API позиций за этим нет.
type Poller struct {
	logger   *log.Entry
	interval time.Duration
	metrics  *metrics.StorefrontMetrics
	recorder Recorder
	step     func() int

	mu        sync.Mutex
	positions map[string]int
}

// NewPoller создает поллер позиций.
func NewPoller(options ...Option) *Poller {
	opts := Options{
		Interval: defaultPollInterval,
		Keywords: defaultKeywords,
		StepFn: func() int {
			if rand.Intn(2) == 0 {
				return -1
			}
			return 1
		},
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "seo_poller")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultPollInterval
	}

	positions := make(map[string]int, len(opts.Keywords))
	for keyword, position := range opts.Keywords {
		positions[keyword] = clamp(position)
	}

	return &Poller{
		logger:    opts.Logger,
		interval:  opts.Interval,
		metrics:   opts.Metrics,
		recorder:  opts.Recorder,
		step:      opts.StepFn,
		positions: positions,
	}
}

func clamp(position int) int {
	if position < minPosition {
		return minPosition
	}
	if position > maxPosition {
		return maxPosition
	}
	return position
}

// Run запускает периодическое обновление позиций до отмены ctx.
func (p *Poller) Run(ctx context.Context) {
	p.publish()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep(ctx)
		}
	}
}

// Sweep выполняет один цикл обновления позиций.
func (p *Poller) Sweep(ctx context.Context) {
	p.mu.Lock()
	changed := make(map[string]int, len(p.positions))
	for keyword, position := range p.positions {
		next := clamp(position + p.step())
		p.positions[keyword] = next
		changed[keyword] = next
	}
	p.mu.Unlock()

	for keyword, position := range changed {
		if p.metrics != nil {
			p.metrics.SetSearchPosition(keyword, position)
		}
		p.logger.WithFields(log.Fields{
			"keyword":  keyword,
			"position": position,
		}).Debug("search position updated")
	}

	if p.recorder != nil {
		payload := make(map[string]any, len(changed))
		for keyword, position := range changed {
			payload[keyword] = position
		}
		p.recorder.Record(ctx, "search_position_update", payload)
	}
}

// publish выставляет стартовые позиции в метрики.
func (p *Poller) publish() {
	if p.metrics == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for keyword, position := range p.positions {
		p.metrics.SetSearchPosition(keyword, position)
	}
}

// Positions возвращает копию текущих позиций.
func (p *Poller) Positions() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]int, len(p.positions))
	for keyword, position := range p.positions {
		out[keyword] = position
	}
	return out
}
