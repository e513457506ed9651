package domain

import (
	"fmt"
	"time"
)

// Currency — единственная валюта витрины.
const Currency = "BYN"

// PricingConfig описывает пороги доставки и лимиты заказа.
// Значения в минимальных денежных единицах (копейки BYN).
type PricingConfig struct {
	// FreeDeliveryThresholdMinor — сумма, начиная с которой доставка бесплатна.
	FreeDeliveryThresholdMinor int64
	// MinOrderAmountMinor — минимальная сумма заказа.
	MinOrderAmountMinor int64
	// MaxOrderAmountMinor — потолок суммы заказа, проверяется калькулятором.
	MaxOrderAmountMinor int64
	// StandardDeliveryCostMinor — фиксированная стоимость доставки ниже порога.
	StandardDeliveryCostMinor int64
	// DeliveryWindowFrom/To — окно работы курьеров.
	DeliveryWindowFrom string
	DeliveryWindowTo   string
	// DeliveryETA — среднее время доставки.
	DeliveryETA time.Duration
}

// FormatMinor форматирует сумму в минимальных единицах как "45.00".
func FormatMinor(amountMinor int64) string {
	sign := ""
	if amountMinor < 0 {
		sign = "-"
		amountMinor = -amountMinor
	}
	return fmt.Sprintf("%s%d.%02d", sign, amountMinor/100, amountMinor%100)
}

// DefaultPricing возвращает конфигурацию витрины SweetHomeBakery.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		FreeDeliveryThresholdMinor: 100_00,
		MinOrderAmountMinor:        10_00,
		MaxOrderAmountMinor:        1000_00,
		StandardDeliveryCostMinor:  5_00,
		DeliveryWindowFrom:         "09:00",
		DeliveryWindowTo:           "21:00",
		DeliveryETA:                2 * time.Hour,
	}
}
