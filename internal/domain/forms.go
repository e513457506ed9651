package domain

import "time"

// FieldError — ошибка валидации одного поля формы.
// Ошибки по полям независимы: невалидное поле не мешает проверке остальных,
// но любая из них блокирует отправку формы целиком.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OrderForm — заявка на заказ со страницы.
type OrderForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Product string `json:"product"`
	Comment string `json:"comment,omitempty"`
}

// Review — отзыв покупателя; до модерации Verified=false.
type Review struct {
	Name     string    `json:"name"`
	Rating   int       `json:"rating"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	Verified bool      `json:"verified"`
}

// Feedback — свободное предложение по улучшению.
type Feedback struct {
	Text      string    `json:"text"`
	PageURL   string    `json:"page_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorReport — сообщение об ошибке на странице.
type ErrorReport struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Subscription — подписка на рассылку.
type Subscription struct {
	Email        string    `json:"email"`
	Source       string    `json:"source"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
