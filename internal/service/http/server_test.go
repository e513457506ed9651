package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/bakery/internal/abtest"
	"github.com/vladislavdragonenkov/bakery/internal/catalog"
	"github.com/vladislavdragonenkov/bakery/internal/chat"
	"github.com/vladislavdragonenkov/bakery/internal/delivery"
	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/forms"
	"github.com/vladislavdragonenkov/bakery/internal/session"
	"github.com/vladislavdragonenkov/bakery/internal/storage/memory"
)

type testEnv struct {
	server *Server
	ts     *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage := memory.NewSlotStore()
	manager := session.NewManager(
		storage,
		abtest.NewAssigner(storage, nil),
		session.WithChatOptions(
			chat.WithNudgeDelay(time.Hour),
			chat.WithReplyDelay(time.Millisecond),
			chat.WithFollowUpDelay(time.Millisecond),
		),
	)

	productCatalog := catalog.New()
	server := NewServer(
		manager,
		productCatalog,
		delivery.NewCalculator(domain.DefaultPricing()),
		forms.NewService(nil, productCatalog),
	)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return &testEnv{server: server, ts: ts}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, buf.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestServer_MintsSessionID(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sid := resp.Header.Get(SessionHeader)
	require.NotEmpty(t, sid)

	resp2, _ := env.do(t, http.MethodGet, "/api/v1/cart", sid, nil)
	require.Equal(t, sid, resp2.Header.Get(SessionHeader))
}

func TestServer_CartAddAndGet(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/cart/items", "visitor", addItemRequest{
		Name:       "Торт Нежность",
		PriceMinor: 45_00,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[struct {
		Item domain.LineItem `json:"item"`
		Cart cartResponse    `json:"cart"`
	}](t, raw)
	require.NotEmpty(t, created.Item.ID)
	require.Equal(t, 1, created.Cart.ItemCount)
	require.Equal(t, int64(45_00), created.Cart.TotalMinor)
	require.Equal(t, "45.00", created.Cart.Total)

	resp, raw = env.do(t, http.MethodPost, "/api/v1/cart/items", "visitor", addItemRequest{
		Name:       "Капкейки Радуга",
		PriceMinor: 20_00,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/v1/cart", "visitor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cart := decode[cartResponse](t, raw)
	require.Equal(t, 2, cart.ItemCount)
	require.Equal(t, int64(65_00), cart.TotalMinor)
	require.NotEmpty(t, cart.DeliveryMessage)
}

func TestServer_CartRejectsInvalidItem(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/cart/items", "visitor", addItemRequest{
		Name:       "Торт",
		PriceMinor: -5,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/cart/items", "visitor", addItemRequest{
		PriceMinor: 10_00,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_DeliveryQuote(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/delivery/quote", "visitor", quoteRequest{AmountMinor: 50_00})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	paid := decode[quoteResponse](t, raw)
	require.Equal(t, int64(5_00), paid.DeliveryCostMinor)
	require.Equal(t, int64(55_00), paid.TotalMinor)
	require.False(t, paid.Free)

	resp, raw = env.do(t, http.MethodPost, "/api/v1/delivery/quote", "visitor", quoteRequest{AmountMinor: 150_00})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	free := decode[quoteResponse](t, raw)
	require.Zero(t, free.DeliveryCostMinor)
	require.True(t, free.Free)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/delivery/quote", "visitor", quoteRequest{AmountMinor: 5_00})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/delivery/quote", "visitor", quoteRequest{AmountMinor: 2000_00})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_CompareFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/compare/toggle", "visitor", compareToggleRequest{Product: "Торт Нежность"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	toggled := decode[struct {
		Action   string   `json:"action"`
		Products []string `json:"products"`
	}](t, raw)
	require.Equal(t, "add", toggled.Action)
	require.Equal(t, []string{"Торт Нежность"}, toggled.Products)

	for _, name := range []string{"Торт Медовый рай", "Капкейки Радуга", "Яблочный пирог"} {
		resp, _ = env.do(t, http.MethodPost, "/api/v1/compare/toggle", "visitor", compareToggleRequest{Product: name})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/compare/toggle", "visitor", compareToggleRequest{Product: "Овсяное печенье"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/v1/compare/table", "visitor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	table := decode[struct {
		Products []string             `json:"products"`
		Rows     []catalog.CompareRow `json:"rows"`
	}](t, raw)
	require.Len(t, table.Products, 4)
	require.Len(t, table.Rows, 3)
	require.Equal(t, "Цена", table.Rows[0].Attribute)

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/compare", "visitor", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/compare/table", "visitor", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ABTestVariantIsSticky(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/v1/abtest", "visitor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	first := decode[struct {
		TestName string `json:"test_name"`
		Variant  string `json:"variant"`
	}](t, raw)
	require.Equal(t, abtest.TestName, first.TestName)
	require.Contains(t, []string{"A", "B"}, first.Variant)

	_, raw = env.do(t, http.MethodGet, "/api/v1/abtest", "visitor", nil)
	second := decode[struct {
		Variant string `json:"variant"`
	}](t, raw)
	require.Equal(t, first.Variant, second.Variant)
}

func TestServer_ChatFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/chat/question", "visitor", chatQuestionRequest{Type: chat.QuestionDelivery})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/chat/question", "visitor", chatQuestionRequest{Type: "nonsense"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/chat/message", "visitor", chatMessageRequest{Text: "Сколько стоит торт?"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/chat/message", "visitor", chatMessageRequest{Text: "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, raw := env.do(t, http.MethodGet, "/api/v1/chat/transcript", "visitor", nil)
		transcript := decode[struct {
			Messages []chat.Message `json:"messages"`
		}](t, raw)
		if len(transcript.Messages) >= 4 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("bot replies did not arrive")
}

func TestServer_OrderFormValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/forms/order", "visitor", domain.OrderForm{
		Name:    "A",
		Phone:   "123",
		Email:   "bad",
		Product: "",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	rejected := decode[struct {
		Error  string              `json:"error"`
		Fields []domain.FieldError `json:"fields"`
	}](t, raw)
	require.Len(t, rejected.Fields, 4)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/forms/order", "visitor", domain.OrderForm{
		Name:    "Анна",
		Phone:   "+375 29 123 45 67",
		Email:   "anna@example.com",
		Product: "Торт Нежность",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestServer_SubscribeForm(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/forms/subscribe", "visitor", subscribeRequest{Email: "anna@example.com"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/forms/subscribe", "visitor", subscribeRequest{Email: "oops"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_AnalyticsEvents(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/analytics/events", "visitor", recordEventRequest{
		Name:    "section_view",
		Payload: map[string]any{"section": "catalog"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	event := decode[domain.AnalyticsEvent](t, raw)
	require.Equal(t, "section_view", event.Name)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/analytics/events", "visitor", recordEventRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, raw = env.do(t, http.MethodPost, "/api/v1/cart/items", "visitor", addItemRequest{
		Name:       "Торт Нежность",
		PriceMinor: 45_00,
	})

	resp, raw = env.do(t, http.MethodGet, "/api/v1/analytics/events", "visitor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listed := decode[struct {
		Events []domain.AnalyticsEvent `json:"events"`
		Count  int                     `json:"count"`
	}](t, raw)
	require.GreaterOrEqual(t, listed.Count, 2)

	names := make([]string, 0, len(listed.Events))
	for _, e := range listed.Events {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "section_view")
	require.Contains(t, names, "add_to_cart")
}

func TestServer_SessionEndClearsState(t *testing.T) {
	env := newTestEnv(t)

	_, _ = env.do(t, http.MethodPost, "/api/v1/cart/items", "visitor", addItemRequest{
		Name:       "Торт Нежность",
		PriceMinor: 45_00,
	})

	resp, _ := env.do(t, http.MethodDelete, "/api/v1/session", "visitor", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, raw := env.do(t, http.MethodGet, "/api/v1/cart", "visitor", nil)
	cart := decode[cartResponse](t, raw)
	require.Zero(t, cart.ItemCount)
	require.Zero(t, cart.TotalMinor)
}

func TestServer_Catalog(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/v1/catalog", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decode[struct {
		Products []catalog.Product `json:"products"`
		Currency string            `json:"currency"`
	}](t, raw)
	require.Len(t, payload.Products, 6)
	require.Equal(t, "BYN", payload.Currency)
}
