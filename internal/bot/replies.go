package bot

import (
	"fmt"

	"aibot-api/internal/services"
	"aibot-api/internal/telegram"
)

// Every user-visible string lives here. Errors map to one fixed reply per
// handler category; the upsell reply is the same whichever counter ran out.
const (
	replyGreeting = "Привет! Я бот с AI. Отправь вопрос, попроси нарисовать картинку или помочь с кодом!"

	replyUpsell         = "Бесплатные попытки закончились! Выбери подписку:"
	replyPaymentSuccess = "Оплата прошла успешно! Теперь у тебя unlimited доступ. Наслаждайся! 🚀"
	replyHistoryCleared = "Начат новый диалог. Прежний контекст забыт."
	replyChoosePlan     = "Выбери тариф для подписки на AI:"

	replyErrText    = "Ошибка AI: попробуй позже."
	replyErrCode    = "Ошибка AI: попробуй позже."
	replyErrVision  = "Не получилось разобрать фото. Попробуй позже."
	replyErrImage   = "Не удалось сгенерировать картинку. Попробуй позже."
	replyErrPayment = "Ошибка после оплаты. Напиши в поддержку."
	replyErrGeneric = "Ошибка бота. Попробуй позже."
)

const (
	callbackPayStandard = "pay_standard"
	callbackPayPremium  = "pay_premium"

	payloadStandard = "standard_200rub"
	payloadPremium  = "premium_500rub"
)

var (
	standardInvoice = telegram.Invoice{
		Title:       "Стандартная подписка",
		Description: "Unlimited запросы к AI на 1 месяц. Доступ к gpt-4o-mini.",
		Payload:     payloadStandard,
		Currency:    "RUB",
		Prices:      []telegram.LabeledPrice{{Label: "Стандарт (1 месяц)", Amount: 20000}},
	}

	premiumInvoice = telegram.Invoice{
		Title:       "Премиум подписка",
		Description: "Unlimited запросы на 3 месяца + доступ к продвинутым моделям (gpt-4o).",
		Payload:     payloadPremium,
		Currency:    "RUB",
		Prices:      []telegram.LabeledPrice{{Label: "Премиум (3 месяца)", Amount: 50000}},
	}
)

func paymentKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "🛒 Стандарт: 200 руб/месяц", CallbackData: callbackPayStandard}},
			{{Text: "⭐ Премиум: 500 руб/3 месяца", CallbackData: callbackPayPremium}},
		},
	}
}

func helpText(stats *services.UsageStats) string {
	if stats.Premium {
		return "У тебя unlimited доступ ⭐\n\n" +
			"Просто отправь вопрос, фото, попроси нарисовать картинку или написать код.\n" +
			"/new — начать новый диалог\n" +
			"/pay — информация о подписках"
	}
	return fmt.Sprintf(
		"Что я умею:\n"+
			"• отвечать на вопросы — осталось %d\n"+
			"• рисовать картинки (напиши «нарисуй ...») — осталось %d\n"+
			"• разбирать фото — осталось %d\n"+
			"• помогать с кодом — осталось %d\n\n"+
			"/new — начать новый диалог\n"+
			"/pay — убрать лимиты",
		stats.TextUses, stats.ImageUses, stats.VisionUses, stats.CodeUses,
	)
}
