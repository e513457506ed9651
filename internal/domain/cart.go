package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// LineItem представляет одну позицию корзины.
// Повторное добавление товара с тем же названием создаёт отдельную позицию,
// количество на позицию всегда равно единице.
type LineItem struct {
	// ID — непрозрачный уникальный токен, генерируется при создании.
	ID string `json:"id"`
	// Name — отображаемое название товара; канонического идентификатора нет.
	Name string `json:"name"`
	// PriceMinor — цена позиции в минимальных единицах BYN (копейки).
	PriceMinor int64 `json:"price_minor"`
	// Quantity фиксировано равен 1 на добавление.
	Quantity int32 `json:"quantity"`
	// AddedAt фиксирует момент добавления в корзину.
	AddedAt time.Time `json:"added_at"`
}

// Cart агрегирует позиции и накопленную сумму корзины.
// TotalMinor ведётся инкрементально и не пересчитывается по Items на чтениях.
type Cart struct {
	Items      []LineItem `json:"items"`
	TotalMinor int64      `json:"total_minor"`
}

// NewLineItemID генерирует идентификатор позиции: время в base36 плюс
// случайный суффикс. Вероятность коллизии считается пренебрежимо малой.
func NewLineItemID(now time.Time) string {
	suffix := make([]byte, 6)
	_, _ = rand.Read(suffix)
	return strconv.FormatInt(now.UnixMilli(), 36) + hex.EncodeToString(suffix)
}

// ValidateItemPrice проверяет цену до любых мутаций корзины.
func ValidateItemPrice(priceMinor int64) error {
	if priceMinor < 0 {
		return ErrPriceInvalid
	}
	return nil
}
