package delivery

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// Quote — результат расчёта стоимости доставки для введённой суммы.
// Калькулятор не привязан к сохранённой корзине.
type Quote struct {
	AmountMinor       int64         `json:"amount_minor"`
	DeliveryCostMinor int64         `json:"delivery_cost_minor"`
	TotalMinor        int64         `json:"total_minor"`
	ETA               time.Duration `json:"-"`
	WindowFrom        string        `json:"window_from"`
	WindowTo          string        `json:"window_to"`
}

// Calculator считает стоимость доставки и порождает сообщения о порогах.
type Calculator struct {
	pricing domain.PricingConfig
}

// NewCalculator создаёт калькулятор с заданными порогами.
func NewCalculator(pricing domain.PricingConfig) *Calculator {
	return &Calculator{pricing: pricing}
}

// Pricing возвращает действующую конфигурацию порогов.
func (c *Calculator) Pricing() domain.PricingConfig {
	return c.pricing
}

// QuoteFor рассчитывает доставку: суммы ниже минимума и выше потолка
// отклоняются без расчёта стоимости, от порога бесплатной доставки
// стоимость обнуляется, иначе применяется фиксированный тариф.
func (c *Calculator) QuoteFor(amountMinor int64) (Quote, error) {
	if amountMinor < c.pricing.MinOrderAmountMinor {
		return Quote{}, domain.ErrBelowMinOrder
	}
	if amountMinor > c.pricing.MaxOrderAmountMinor {
		return Quote{}, domain.ErrAboveMaxOrder
	}

	cost := c.pricing.StandardDeliveryCostMinor
	if amountMinor >= c.pricing.FreeDeliveryThresholdMinor {
		cost = 0
	}

	return Quote{
		AmountMinor:       amountMinor,
		DeliveryCostMinor: cost,
		TotalMinor:        amountMinor + cost,
		ETA:               c.pricing.DeliveryETA,
		WindowFrom:        c.pricing.DeliveryWindowFrom,
		WindowTo:          c.pricing.DeliveryWindowTo,
	}, nil
}

// RemainingMinor возвращает, сколько не хватает до бесплатной доставки.
func (c *Calculator) RemainingMinor(totalMinor int64) int64 {
	remaining := c.pricing.FreeDeliveryThresholdMinor - totalMinor
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Message — чистая функция суммы корзины: поздравление при достигнутом
// пороге бесплатной доставки либо подсказка с недостающей суммой.
func (c *Calculator) Message(totalMinor int64) string {
	if totalMinor >= c.pricing.FreeDeliveryThresholdMinor {
		return "🎉 Поздравляем! У вас бесплатная доставка!"
	}
	remaining := c.pricing.FreeDeliveryThresholdMinor - totalMinor
	return fmt.Sprintf("🚚 Добавьте еще на %s BYN для бесплатной доставки", domain.FormatMinor(remaining))
}

// RejectionMessage формулирует отказ калькулятора для пользователя.
func (c *Calculator) RejectionMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case err == domain.ErrBelowMinOrder:
		return fmt.Sprintf("Минимальный заказ: %s BYN", domain.FormatMinor(c.pricing.MinOrderAmountMinor))
	case err == domain.ErrAboveMaxOrder:
		return fmt.Sprintf("Максимальный заказ: %s BYN", domain.FormatMinor(c.pricing.MaxOrderAmountMinor))
	default:
		return "Не удалось рассчитать доставку"
	}
}
