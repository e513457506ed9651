package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

var (
	phoneRe = regexp.MustCompile(`^\+375\s?[0-9]{2}\s?[0-9]{3}\s?[0-9]{2}\s?[0-9]{2}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minNameLength = 2

const (
	msgPhoneFormat = "Введите телефон в формате: +375 __ ______"
	msgEmailFormat = "Введите корректный email адрес"
	msgNameLength  = "Имя должно содержать минимум 2 символа"
	msgRequired    = "Поле обязательно для заполнения"
)

// ValidPhone проверяет белорусский номер телефона.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(strings.TrimSpace(phone))
}

// ValidEmail проверяет адрес электронной почты.
func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// ValidName проверяет минимальную длину имени (в рунах, не байтах).
func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= minNameLength
}

// ValidateOrderForm проверяет все поля заявки независимо друг от друга:
// результат содержит ошибку для каждого невалидного поля сразу.
func ValidateOrderForm(form domain.OrderForm) []domain.FieldError {
	var fields []domain.FieldError

	if !ValidName(form.Name) {
		fields = append(fields, domain.FieldError{Field: "name", Message: msgNameLength})
	}
	if !ValidPhone(form.Phone) {
		fields = append(fields, domain.FieldError{Field: "phone", Message: msgPhoneFormat})
	}
	if !ValidEmail(form.Email) {
		fields = append(fields, domain.FieldError{Field: "email", Message: msgEmailFormat})
	}
	if strings.TrimSpace(form.Product) == "" {
		fields = append(fields, domain.FieldError{Field: "product", Message: msgRequired})
	}

	return fields
}
