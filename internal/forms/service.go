package forms

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
)

// Recorder — контракт аналитики для форм.
type Recorder interface {
	Record(ctx context.Context, name string, payload map[string]any) domain.AnalyticsEvent
}

// OrderValuer отдаёт ценность заказа для отслеживания конверсии.
type OrderValuer interface {
	OrderValueMinor(productName string) int64
}

// Service принимает формы со страниц: валидирует, логирует и фиксирует
// событие аналитики. Дальше заявки никуда не уходят — наружные вызовы
// сознательно не делаются.
type Service struct {
	logger   *log.Entry
	recorder Recorder
	valuer   OrderValuer
	metrics  *metrics.StorefrontMetrics
}

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт logger сервиса форм.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics подключает метрики отправок форм.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService создаёт сервис форм.
func NewService(recorder Recorder, valuer OrderValuer, options ...Option) *Service {
	s := &Service{
		logger:   log.WithField("component", "forms_service"),
		recorder: recorder,
		valuer:   valuer,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Service) record(ctx context.Context, name string, payload map[string]any) {
	if s.recorder != nil {
		s.recorder.Record(ctx, name, payload)
	}
}

func (s *Service) observe(form, result string) {
	if s.metrics != nil {
		s.metrics.RecordFormSubmission(form, result)
	}
}

// SubmitOrder принимает заявку на заказ. При ошибках валидации возвращает
// список невалидных полей и ErrFormInvalid; валидная заявка фиксируется
// событием form_submission с ценностью конверсии.
func (s *Service) SubmitOrder(ctx context.Context, form domain.OrderForm) ([]domain.FieldError, error) {
	if fields := ValidateOrderForm(form); len(fields) > 0 {
		s.observe("order", "rejected")
		return fields, domain.ErrFormInvalid
	}

	var conversionMinor int64
	if s.valuer != nil {
		conversionMinor = s.valuer.OrderValueMinor(form.Product)
	}

	s.logger.WithFields(log.Fields{
		"product":          form.Product,
		"conversion_minor": conversionMinor,
	}).Info("order form submitted")

	s.record(ctx, "form_submission", map[string]any{
		"form_type":        "order",
		"product":          form.Product,
		"conversion_minor": conversionMinor,
	})
	s.observe("order", "accepted")

	return nil, nil
}

// SubmitReview принимает отзыв: оценка строго 1..5, имя минимум 2 символа.
// Принятый отзыв помечается неподтверждённым до модерации.
func (s *Service) SubmitReview(ctx context.Context, review domain.Review) (domain.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		s.observe("review", "rejected")
		return domain.Review{}, domain.ErrRatingInvalid
	}
	if !ValidName(review.Name) {
		s.observe("review", "rejected")
		return domain.Review{}, domain.ErrFormInvalid
	}

	review.Text = strings.TrimSpace(review.Text)
	review.Date = time.Now().UTC()
	review.Verified = false

	s.logger.WithFields(log.Fields{
		"rating":   review.Rating,
		"has_text": review.Text != "",
	}).Info("review submitted")

	s.record(ctx, "review_submitted", map[string]any{
		"rating":   review.Rating,
		"has_text": review.Text != "",
	})
	s.observe("review", "accepted")

	return review, nil
}

// SubmitFeedback принимает свободное предложение.
func (s *Service) SubmitFeedback(ctx context.Context, feedback domain.Feedback) error {
	feedback.Text = strings.TrimSpace(feedback.Text)
	if feedback.Text == "" {
		s.observe("feedback", "rejected")
		return domain.ErrFeedbackEmpty
	}
	feedback.Timestamp = time.Now().UTC()

	s.logger.WithField("text_length", len(feedback.Text)).Info("feedback submitted")

	s.record(ctx, "feedback_submitted", map[string]any{
		"has_text":    true,
		"text_length": len(feedback.Text),
		"page_url":    feedback.PageURL,
	})
	s.observe("feedback", "accepted")

	return nil
}

// SubmitErrorReport принимает отчёт об ошибке на странице.
func (s *Service) SubmitErrorReport(ctx context.Context, report domain.ErrorReport) error {
	report.Description = strings.TrimSpace(report.Description)
	if report.Type == "" || report.Description == "" {
		s.observe("error_report", "rejected")
		return domain.ErrFormInvalid
	}
	report.Timestamp = time.Now().UTC()

	s.logger.WithFields(log.Fields{
		"error_type": report.Type,
		"url":        report.URL,
	}).Info("error reported")

	s.record(ctx, "error_reported", map[string]any{
		"error_type":      report.Type,
		"page_url":        report.URL,
		"has_description": report.Description != "",
	})
	s.observe("error_report", "accepted")

	return nil
}

// Subscribe оформляет подписку на рассылку.
func (s *Service) Subscribe(ctx context.Context, email, source string) (domain.Subscription, error) {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		s.observe("newsletter", "rejected")
		return domain.Subscription{}, domain.ErrEmailInvalid
	}

	sub := domain.Subscription{
		Email:        email,
		Source:       source,
		SubscribedAt: time.Now().UTC(),
	}

	s.logger.WithField("source", source).Info("newsletter subscription")

	s.record(ctx, "newsletter_subscription", map[string]any{
		"source": source,
	})
	s.observe("newsletter", "accepted")

	return sub, nil
}
