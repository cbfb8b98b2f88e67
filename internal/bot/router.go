package bot

import (
	"context"
	"strings"

	"aibot-api/internal/logger"
	"aibot-api/internal/models"
	"aibot-api/internal/repository"
	"aibot-api/internal/services"
	"aibot-api/internal/telegram"

	"github.com/sirupsen/logrus"
)

// Sender is the slice of the platform client the router talks back through.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error
	SendInvoice(ctx context.Context, chatID int64, invoice telegram.Invoice) error
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool) error
	AnswerCallbackQuery(ctx context.Context, queryID string) error
	FileURL(ctx context.Context, fileID string) (string, error)
}

// Router classifies each inbound update, consults the entitlement service,
// and either forwards the request to the matching generation service or
// replies with the upsell. It is the error boundary: nothing escapes
// HandleUpdate.
type Router struct {
	sender       Sender
	entitlements services.EntitlementService
	chat         services.ChatService
	images       services.ImageService
	payments     repository.PaymentRepository
}

func NewRouter(
	sender Sender,
	entitlements services.EntitlementService,
	chat services.ChatService,
	images services.ImageService,
	payments repository.PaymentRepository,
) *Router {
	return &Router{
		sender:       sender,
		entitlements: entitlements,
		chat:         chat,
		images:       images,
		payments:     payments,
	}
}

func (r *Router) HandleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.PreCheckoutQuery != nil:
		// Validation of the purchase is the platform's responsibility.
		if err := r.sender.AnswerPreCheckoutQuery(ctx, update.PreCheckoutQuery.ID, true); err != nil {
			logError("answer pre-checkout query", update.PreCheckoutQuery.From.ID, err)
		}
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	}
}

func (r *Router) handleCallback(ctx context.Context, query *telegram.CallbackQuery) {
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	switch query.Data {
	case callbackPayStandard:
		if err := r.sender.SendInvoice(ctx, chatID, standardInvoice); err != nil {
			logError("send standard invoice", query.From.ID, err)
			r.reply(ctx, chatID, replyErrGeneric)
		}
	case callbackPayPremium:
		if err := r.sender.SendInvoice(ctx, chatID, premiumInvoice); err != nil {
			logError("send premium invoice", query.From.ID, err)
			r.reply(ctx, chatID, replyErrGeneric)
		}
	default:
		return
	}

	if err := r.sender.AnswerCallbackQuery(ctx, query.ID); err != nil {
		logError("answer callback query", query.From.ID, err)
	}
}

// handleMessage is the per-message state machine; it is terminal on the
// first matching branch.
func (r *Router) handleMessage(ctx context.Context, msg *telegram.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch {
	case msg.SuccessfulPayment != nil:
		r.handlePayment(ctx, userID, chatID, msg.SuccessfulPayment)
	case msg.IsCommand():
		r.handleCommand(ctx, userID, chatID, msg.Text)
	case msg.LargestPhoto() != "":
		r.handleVision(ctx, userID, chatID, msg)
	case msg.Text != "":
		switch Classify(msg.Text) {
		case models.FeatureImage:
			r.handleImage(ctx, userID, chatID, msg.Text)
		case models.FeatureCode:
			r.handleCode(ctx, userID, chatID, msg.Text)
		default:
			r.handleText(ctx, userID, chatID, msg.Text)
		}
	}
}

func (r *Router) handleCommand(ctx context.Context, userID, chatID int64, text string) {
	command := strings.ToLower(strings.Fields(text)[0])
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}

	switch command {
	case "/start":
		r.reply(ctx, chatID, replyGreeting)
	case "/help":
		stats, err := r.entitlements.Usage(ctx, userID)
		if err != nil {
			logError("fetch usage for /help", userID, err)
			r.reply(ctx, chatID, replyErrGeneric)
			return
		}
		r.reply(ctx, chatID, helpText(stats))
	case "/pay":
		if err := r.sender.SendMessage(ctx, chatID, replyChoosePlan, paymentKeyboard()); err != nil {
			logError("send payment keyboard", userID, err)
		}
	case "/new":
		if err := r.entitlements.ClearHistory(ctx, userID); err != nil {
			logError("clear history", userID, err)
			r.reply(ctx, chatID, replyErrGeneric)
			return
		}
		r.reply(ctx, chatID, replyHistoryCleared)
	default:
		r.reply(ctx, chatID, replyGreeting)
	}
}

func (r *Router) handlePayment(ctx context.Context, userID, chatID int64, payment *telegram.SuccessfulPayment) {
	if err := r.entitlements.GrantUnlimited(ctx, userID); err != nil {
		logError("grant unlimited after payment", userID, err)
		r.reply(ctx, chatID, replyErrPayment)
		return
	}

	// The payment already went through; a bookkeeping failure must not make
	// the user think otherwise.
	record := &models.Payment{
		UserID:   userID,
		Payload:  payment.InvoicePayload,
		Currency: payment.Currency,
		Amount:   payment.TotalAmount,
		ChargeID: payment.ProviderPaymentChargeID,
	}
	if err := r.payments.Create(ctx, record); err != nil {
		logError("record payment", userID, err)
	}

	logger.LogEvent(logrus.InfoLevel, "Payment processed", logrus.Fields{
		"user_id": userID,
		"payload": payment.InvoicePayload,
		"amount":  payment.TotalAmount,
	})
	r.reply(ctx, chatID, replyPaymentSuccess)
}

func (r *Router) handleVision(ctx context.Context, userID, chatID int64, msg *telegram.Message) {
	allowed, err := r.entitlements.Consume(ctx, userID, models.FeatureVision)
	if err != nil {
		logError("consume vision quota", userID, err)
		r.reply(ctx, chatID, replyErrVision)
		return
	}
	if !allowed {
		r.upsell(ctx, chatID)
		return
	}

	fileURL, err := r.sender.FileURL(ctx, msg.LargestPhoto())
	if err != nil {
		logError("resolve photo url", userID, err)
		r.reply(ctx, chatID, replyErrVision)
		return
	}

	reply, err := r.chat.VisionReply(ctx, userID, fileURL, msg.Caption)
	if err != nil {
		logError("vision completion", userID, err)
		r.reply(ctx, chatID, replyErrVision)
		return
	}
	r.reply(ctx, chatID, reply)
}

func (r *Router) handleImage(ctx context.Context, userID, chatID int64, prompt string) {
	allowed, err := r.entitlements.Consume(ctx, userID, models.FeatureImage)
	if err != nil {
		logError("consume image quota", userID, err)
		r.reply(ctx, chatID, replyErrImage)
		return
	}
	if !allowed {
		r.upsell(ctx, chatID)
		return
	}

	// One attempt only: a failed generation is reported, never retried, and
	// the spent use is not refunded.
	image, err := r.images.Generate(ctx, prompt)
	if err != nil {
		logError("image generation", userID, err)
		r.reply(ctx, chatID, replyErrImage)
		return
	}

	if err := r.sender.SendPhoto(ctx, chatID, image, ""); err != nil {
		logError("send generated photo", userID, err)
		r.reply(ctx, chatID, replyErrImage)
	}
}

func (r *Router) handleCode(ctx context.Context, userID, chatID int64, prompt string) {
	allowed, err := r.entitlements.Consume(ctx, userID, models.FeatureCode)
	if err != nil {
		logError("consume code quota", userID, err)
		r.reply(ctx, chatID, replyErrCode)
		return
	}
	if !allowed {
		r.upsell(ctx, chatID)
		return
	}

	reply, err := r.chat.CodeReply(ctx, userID, prompt)
	if err != nil {
		logError("code completion", userID, err)
		r.reply(ctx, chatID, replyErrCode)
		return
	}
	r.reply(ctx, chatID, reply)
}

func (r *Router) handleText(ctx context.Context, userID, chatID int64, prompt string) {
	allowed, err := r.entitlements.Consume(ctx, userID, models.FeatureText)
	if err != nil {
		logError("consume text quota", userID, err)
		r.reply(ctx, chatID, replyErrText)
		return
	}
	if !allowed {
		r.upsell(ctx, chatID)
		return
	}

	reply, err := r.chat.Reply(ctx, userID, prompt)
	if err != nil {
		logError("text completion", userID, err)
		r.reply(ctx, chatID, replyErrText)
		return
	}
	r.reply(ctx, chatID, reply)
}

func (r *Router) upsell(ctx context.Context, chatID int64) {
	if err := r.sender.SendMessage(ctx, chatID, replyUpsell, paymentKeyboard()); err != nil {
		logError("send upsell", chatID, err)
	}
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	if err := r.sender.SendMessage(ctx, chatID, text, nil); err != nil {
		logError("send reply", chatID, err)
	}
}

func logError(action string, userID int64, err error) {
	logger.LogEvent(logrus.ErrorLevel, "Failed to "+action, logrus.Fields{
		"user_id": userID,
		"error":   err.Error(),
	})
}
