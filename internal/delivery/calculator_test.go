package delivery_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/bakery/internal/delivery"
	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

func newCalculator() *delivery.Calculator {
	return delivery.NewCalculator(domain.DefaultPricing())
}

func TestQuoteFor(t *testing.T) {
	tests := []struct {
		name        string
		amountMinor int64
		wantCost    int64
		wantTotal   int64
		wantErr     error
	}{
		{name: "below minimum", amountMinor: 5_00, wantErr: domain.ErrBelowMinOrder},
		{name: "at minimum", amountMinor: 10_00, wantCost: 5_00, wantTotal: 15_00},
		{name: "below threshold", amountMinor: 50_00, wantCost: 5_00, wantTotal: 55_00},
		{name: "at threshold", amountMinor: 100_00, wantCost: 0, wantTotal: 100_00},
		{name: "above threshold", amountMinor: 150_00, wantCost: 0, wantTotal: 150_00},
		{name: "at maximum", amountMinor: 1000_00, wantCost: 0, wantTotal: 1000_00},
		{name: "above maximum", amountMinor: 1500_00, wantErr: domain.ErrAboveMaxOrder},
	}

	calc := newCalculator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			quote, err := calc.QuoteFor(tc.amountMinor)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if quote != (delivery.Quote{}) {
					t.Fatal("rejected amount must not produce a quote")
				}
				return
			}
			if err != nil {
				t.Fatalf("quote failed: %v", err)
			}
			if quote.DeliveryCostMinor != tc.wantCost {
				t.Fatalf("expected cost %d, got %d", tc.wantCost, quote.DeliveryCostMinor)
			}
			if quote.TotalMinor != tc.wantTotal {
				t.Fatalf("expected total %d, got %d", tc.wantTotal, quote.TotalMinor)
			}
		})
	}
}

func TestRejectedAmountHelpers(t *testing.T) {
	calc := newCalculator()

	_, err := calc.QuoteFor(5_00)
	if !domain.IsRejectedAmount(err) {
		t.Fatalf("expected rejected amount, got %v", err)
	}
	if msg := calc.RejectionMessage(err); !strings.Contains(msg, "Минимальный заказ") {
		t.Fatalf("unexpected rejection message: %s", msg)
	}

	_, err = calc.QuoteFor(2000_00)
	if msg := calc.RejectionMessage(err); !strings.Contains(msg, "Максимальный заказ") {
		t.Fatalf("unexpected rejection message: %s", msg)
	}
}

func TestMessage(t *testing.T) {
	calc := newCalculator()

	if msg := calc.Message(120_00); !strings.Contains(msg, "бесплатная доставка") {
		t.Fatalf("expected free delivery congratulation, got %s", msg)
	}

	msg := calc.Message(55_00)
	if !strings.Contains(msg, "45.00 BYN") {
		t.Fatalf("expected remaining amount in message, got %s", msg)
	}
}

func TestRemainingMinor(t *testing.T) {
	calc := newCalculator()

	if got := calc.RemainingMinor(55_00); got != 45_00 {
		t.Fatalf("expected 4500, got %d", got)
	}
	if got := calc.RemainingMinor(150_00); got != 0 {
		t.Fatalf("remaining must clamp at zero, got %d", got)
	}
}
