package domain

import "context"

// SlotStorage описывает именованные слоты персистентного key-value хранилища.
// Хранилище считается недоверенной внешней зависимостью: любая ошибка Save
// не фатальна, in-memory состояние остаётся авторитетным до конца сессии.
type SlotStorage interface {
	// Load возвращает сырое значение слота; found=false при отсутствии.
	Load(ctx context.Context, slot string) (raw []byte, found bool, err error)
	// Save перезаписывает значение слота целиком.
	Save(ctx context.Context, slot string, raw []byte) error
	// Delete удаляет слот; отсутствие слота не является ошибкой.
	Delete(ctx context.Context, slot string) error
}

// AnalyticsSink — опциональный внешний приёмник аналитических событий.
// Отсутствие приёмника — не ошибка, а пропущенная пересылка.
type AnalyticsSink interface {
	// Name идентифицирует приёмник в логах.
	Name() string
	// Forward передаёт событие как есть; ошибка логируется и не распространяется.
	Forward(event AnalyticsEvent) error
}

// Слоты персистентного состояния витрины.
const (
	SlotCart            = "cart"
	SlotOrderAmount     = "order_amount"
	SlotAnalyticsEvents = "analytics_events"
	SlotABTestGroup     = "ab_test_group"
	SlotChatOpened      = "chat_opened"
)

// SessionSlot возвращает имя слота, неймспейсованное идентификатором сессии.
func SessionSlot(sessionID, slot string) string {
	return "storefront:" + sessionID + ":" + slot
}
