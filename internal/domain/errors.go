package domain

import "errors"

var (
	// Ошибка отрицательной цены позиции.
	ErrPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка пустого названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка суммы ниже минимального заказа.
	ErrBelowMinOrder = errors.New("amount is below the minimum order")
	// Ошибка суммы выше потолка заказа.
	ErrAboveMaxOrder = errors.New("amount exceeds the maximum order")
	// Ошибка переполнения набора сравнения (лимит 4 товара).
	ErrCompareLimit = errors.New("compare set is limited to 4 products")
	// Ошибка пустого набора сравнения при построении таблицы.
	ErrCompareEmpty = errors.New("compare set is empty")
	// Ошибка некорректной оценки отзыва (допустимо 1..5).
	ErrRatingInvalid = errors.New("rating must be between 1 and 5")
	// Ошибка пустого текста обратной связи.
	ErrFeedbackEmpty = errors.New("feedback text is required")
	// Ошибка некорректного email при подписке.
	ErrEmailInvalid = errors.New("email address is invalid")
	// Ошибка неизвестного типа вопроса в чате.
	ErrUnknownQuestion = errors.New("unknown chat question type")
	// Ошибка пустого сообщения в чате.
	ErrEmptyMessage = errors.New("chat message is empty")
	// ErrProductNotFound возвращается каталогом для неизвестного товара.
	ErrProductNotFound = errors.New("product not found in catalog")
	// ErrSessionNotFound возвращается менеджером сессий для незнакомого id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrFormInvalid агрегирует ошибки полей при отправке формы.
	ErrFormInvalid = errors.New("form contains invalid fields")
)

// IsRejectedAmount проверяет, отклонена ли сумма калькулятором доставки.
func IsRejectedAmount(err error) bool {
	return errors.Is(err, ErrBelowMinOrder) || errors.Is(err, ErrAboveMaxOrder)
}
