package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/bakery/internal/abtest"
	"github.com/vladislavdragonenkov/bakery/internal/chat"
	"github.com/vladislavdragonenkov/bakery/internal/delivery"
	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/session"
)

// ---- каталог ----

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"products": s.catalog.List(),
		"currency": domain.Currency,
	})
}

func (s *Server) handleSearchPositions(w http.ResponseWriter, _ *http.Request) {
	if s.seo == nil {
		s.writeError(w, http.StatusNotFound, "position tracking is disabled")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"positions": s.seo.Positions()})
}

// ---- корзина ----

type addItemRequest struct {
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
}

type cartResponse struct {
	Items           []domain.LineItem `json:"items"`
	ItemCount       int               `json:"item_count"`
	TotalMinor      int64             `json:"total_minor"`
	Total           string            `json:"total"`
	DeliveryMessage string            `json:"delivery_message"`
}

func (s *Server) cartResponse(sess sessionState) cartResponse {
	total := sess.Cart.TotalMinor()
	return cartResponse{
		Items:           sess.Cart.Items(),
		ItemCount:       sess.Cart.ItemCount(),
		TotalMinor:      total,
		Total:           domain.FormatMinor(total),
		DeliveryMessage: s.calculator.Message(total),
	}
}

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.writeJSON(w, http.StatusOK, s.cartResponse(sess))
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := sess.Cart.AddItem(r.Context(), req.Name, req.PriceMinor)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.RecordCartItemAdded()
	}
	sess.Analytics.Record(r.Context(), "add_to_cart", map[string]any{
		"product_name":     item.Name,
		"price_minor":      item.PriceMinor,
		"cart_total_minor": sess.Cart.TotalMinor(),
		"items_in_cart":    sess.Cart.ItemCount(),
	})

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"item": item,
		"cart": s.cartResponse(sess),
	})
}

// ---- калькулятор доставки ----

type quoteRequest struct {
	AmountMinor int64 `json:"amount_minor"`
}

type quoteResponse struct {
	delivery.Quote
	Free    bool   `json:"free"`
	Message string `json:"message"`
	ETA     string `json:"eta"`
}

func (s *Server) handleDeliveryQuote(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := s.calculator.QuoteFor(req.AmountMinor)
	if err != nil {
		if domain.IsRejectedAmount(err) {
			if s.metrics != nil {
				s.metrics.RecordDeliveryQuote("rejected")
			}
			s.writeError(w, http.StatusUnprocessableEntity, s.calculator.RejectionMessage(err))
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	free := quote.DeliveryCostMinor == 0
	if s.metrics != nil {
		if free {
			s.metrics.RecordDeliveryQuote("free")
		} else {
			s.metrics.RecordDeliveryQuote("paid")
		}
	}
	sess.Analytics.Record(r.Context(), "delivery_calculator_used", map[string]any{
		"order_amount_minor":  quote.AmountMinor,
		"delivery_cost_minor": quote.DeliveryCostMinor,
		"total_minor":         quote.TotalMinor,
	})

	s.writeJSON(w, http.StatusOK, quoteResponse{
		Quote:   quote,
		Free:    free,
		Message: s.calculator.Message(quote.AmountMinor),
		ETA:     quote.ETA.String(),
	})
}

// ---- сравнение товаров ----

type compareToggleRequest struct {
	Product string `json:"product"`
}

func (s *Server) handleCompareToggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req compareToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := sess.Compare.Toggle(req.Product)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompareLimit):
			s.writeError(w, http.StatusConflict, err.Error())
		default:
			s.writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if s.metrics != nil {
		s.metrics.RecordCompareToggle(string(action))
	}
	sess.Analytics.Record(r.Context(), "product_comparison", map[string]any{
		"product":       req.Product,
		"action":        string(action),
		"compare_count": sess.Compare.Len(),
	})

	s.writeJSON(w, http.StatusOK, map[string]any{
		"action":   string(action),
		"products": sess.Compare.List(),
	})
}

func (s *Server) handleCompareGet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.writeJSON(w, http.StatusOK, map[string]any{"products": sess.Compare.List()})
}

func (s *Server) handleCompareClear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Compare.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompareTable(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	table, err := s.catalog.CompareTable(sess.Compare.Snapshot())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.Analytics.Record(r.Context(), "compare_view", map[string]any{
		"products_count": sess.Compare.Len(),
	})

	s.writeJSON(w, http.StatusOK, map[string]any{
		"products": sess.Compare.List(),
		"rows":     table,
	})
}

// ---- A/B тест ----

func (s *Server) handleABTest(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"test_name": abtest.TestName,
		"variant":   string(sess.ABGroup),
	})
}

// ---- чат ----

func (s *Server) handleChatOpen(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Chat.Open(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type chatQuestionRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleChatQuestion(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req chatQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qa, err := sess.Chat.SelectQuestion(r.Context(), req.Type)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.RecordChatMessage()
	}

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"question": qa.Question,
	})
}

type chatMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := sess.Chat.SendMessage(r.Context(), req.Text); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.RecordChatMessage()
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleChatTranscript(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	transcript := sess.Chat.Transcript()
	if transcript == nil {
		transcript = []chat.Message{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"messages": transcript})
}

// ---- формы ----

func (s *Server) handleOrderForm(w http.ResponseWriter, r *http.Request) {
	var form domain.OrderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields, err := s.forms.SubmitOrder(r.Context(), form)
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"fields": fields,
		})
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"message": "Спасибо за заказ! Мы свяжемся с вами в ближайшее время.",
	})
}

func (s *Server) handleReviewForm(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accepted, err := s.forms.SubmitReview(r.Context(), review)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"review":  accepted,
		"message": "Спасибо за ваш отзыв! После модерации он появится на сайте.",
	})
}

func (s *Server) handleFeedbackForm(w http.ResponseWriter, r *http.Request) {
	var feedback domain.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.forms.SubmitFeedback(r.Context(), feedback); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"message": "Спасибо за ваше предложение! Мы его обязательно рассмотрим.",
	})
}

func (s *Server) handleErrorReportForm(w http.ResponseWriter, r *http.Request) {
	var report domain.ErrorReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.forms.SubmitErrorReport(r.Context(), report); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"message": "Спасибо за вашу помощь! Мы исправим ошибку в ближайшее время.",
	})
}

type subscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

func (s *Server) handleSubscribeForm(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		req.Source = "website_footer"
	}

	sub, err := s.forms.Subscribe(r.Context(), req.Email, req.Source)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"subscription": sub,
		"message":      "Спасибо за подписку! Проверьте вашу почту для подтверждения.",
	})
}

// ---- аналитика ----

func (s *Server) handleAnalyticsList(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	events := sess.Analytics.Events()
	if events == nil {
		events = []domain.AnalyticsEvent{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

type recordEventRequest struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload"`
}

func (s *Server) handleAnalyticsRecord(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req recordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "event name is required")
		return
	}

	event := sess.Analytics.Record(r.Context(), req.Name, req.Payload)
	s.writeJSON(w, http.StatusCreated, event)
}

// ---- сессия ----

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	if err := s.sessions.End(r.Context(), sess.ID); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionState = *session.Session
