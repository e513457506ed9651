package chat

import "strings"

// QA — канированный ответ бота на типовой вопрос.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Типы вопросов, доступные кнопками в окне чата.
const (
	QuestionDelivery = "delivery"
	QuestionPayment  = "payment"
	QuestionCustom   = "custom"
)

// cannedAnswers — таблица готовых ответов; содержимое витрины,
// копия трактуется как внешние данные.
var cannedAnswers = map[string]QA{
	QuestionDelivery: {
		Question: "Условия доставки",
		Answer:   "Мы доставляем с 9:00 до 21:00 ежедневно. Бесплатная доставка при заказе от 100 BYN, в остальных случаях - 5 BYN. Среднее время доставки - 2 часа.",
	},
	QuestionPayment: {
		Question: "Способы оплаты",
		Answer:   "Мы принимаем наличные при получении, банковские карты и онлайн-оплату через ЕРИП. Также возможна оплата картой курьеру.",
	},
	QuestionCustom: {
		Question: "Торты на заказ",
		Answer:   "Да, мы делаем торты по индивидуальному дизайну! Присылайте нам фото или описание вашей идеи, и мы подготовим расчет в течение 2 часов.",
	},
}

// customFollowUp — дополнительное сообщение после ответа про торты на заказ.
const customFollowUp = "Хотите обсудить детали торта? Можете позвонить нам или оставить заявку на сайте."

// LookupQuestion возвращает канированный ответ по типу вопроса.
func LookupQuestion(questionType string) (QA, bool) {
	qa, ok := cannedAnswers[questionType]
	return qa, ok
}

// BotResponse подбирает ответ бота по ключевым словам свободного сообщения.
func BotResponse(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "цена") || strings.Contains(lower, "стоимость"):
		return "Цены на наши десерты указаны в каталоге. Могу помочь подобрать что-то по вашему бюджету!"
	case strings.Contains(lower, "время") || strings.Contains(lower, "когда"):
		return "Мы работаем с 9:00 до 21:00 ежедневно. Доставку можно заказать на любое удобное время в этом интервале."
	case strings.Contains(lower, "заказ") || strings.Contains(lower, "оформить"):
		return "Чтобы оформить заказ, выберите товары в каталоге и нажмите 'Заказать'. Или можете позвонить нам по телефону +375 (33) 875-10-74"
	default:
		return "Спасибо за ваш вопрос! Чтобы получить точную информацию, рекомендую позвонить нам по телефону +375 (33) 875-10-74 или оставить заявку на сайте."
	}
}
