package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Router маршрутизирует обновления Telegram и держит состояние диалогов
type Router struct {
	bot          *tgbotapi.BotAPI
	logger       Logger
	slotsUC      SlotsUseCase
	holdUC       HoldUseCase
	appointments AppointmentsService
	settingsSvc  SettingsService
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	blockedRepo  BlockedRepository
	location     *time.Location
	adminChatID  int64
	sessions     *sessionStore
	timeProvider TimeProvider
}

// NewRouter создает новый маршрутизатор
func NewRouter(
	bot *tgbotapi.BotAPI,
	logger Logger,
	slotsUC SlotsUseCase,
	holdUC HoldUseCase,
	appointments AppointmentsService,
	settingsSvc SettingsService,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	blockedRepo BlockedRepository,
	location *time.Location,
	adminChatID int64,
) *Router {
	return &Router{
		bot:          bot,
		logger:       logger,
		slotsUC:      slotsUC,
		holdUC:       holdUC,
		appointments: appointments,
		settingsSvc:  settingsSvc,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		blockedRepo:  blockedRepo,
		location:     location,
		adminChatID:  adminChatID,
		sessions:     newSessionStore(),
		timeProvider: &RealTimeProvider{},
	}
}

// Run читает обновления до отмены контекста
func (r *Router) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := r.bot.GetUpdatesChan(u)

	r.logger.Info("telegram: update loop started")

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			r.logger.Info("telegram: update loop stopped")
			return
		case upd := <-updates:
			r.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate обрабатывает одно обновление
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(chatID)
		case strings.HasPrefix(text, "/book"), text == "📅 Записаться":
			r.handleBook(ctx, chatID)
		case strings.HasPrefix(text, "/my"), text == "🗓 Мои записи":
			r.handleMyAppointments(ctx, chatID)
		case strings.HasPrefix(text, "/settings"):
			r.handleSettingsShow(ctx, chatID)
		case strings.HasPrefix(text, "/set "):
			r.handleSettingsUpdate(ctx, chatID, text)
		case strings.HasPrefix(text, "/blocks"):
			r.handleBlockList(ctx, chatID)
		case strings.HasPrefix(text, "/block "):
			r.handleBlockAdd(ctx, chatID, text)
		case strings.HasPrefix(text, "/unblock "):
			r.handleBlockRemove(ctx, chatID, text)
		case strings.HasPrefix(text, "/addservice"):
			r.handleAddService(ctx, chatID, text)
		default:
			// Свободный текст используется шагами диалога записи
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		data := cb.Data
		chatID := cb.Message.Chat.ID

		switch {
		case strings.HasPrefix(data, "svc:"):
			r.handleServiceCallback(ctx, chatID, data, cb.ID)
		case strings.HasPrefix(data, "day:"):
			r.handleDateCallback(ctx, chatID, data, cb.ID)
		case strings.HasPrefix(data, "slot:"):
			r.handleSlotCallback(ctx, chatID, data, cb.ID)
		case data == "skip:comment":
			r.handleCommentSkip(chatID, cb.ID)
		case data == "skip:phone":
			r.handlePhoneSkip(ctx, chatID, cb.ID)
		case strings.HasPrefix(data, "back:"):
			r.handleBackCallback(ctx, chatID, data, cb.ID)
		case strings.HasPrefix(data, "cancel:"):
			r.handleCancelCallback(ctx, chatID, data, cb.ID)
		case strings.HasPrefix(data, "adm:"):
			r.handleAdminDecision(ctx, chatID, data, cb.ID)
		default:
			// Неизвестный callback игнорируется
		}
		return
	}
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.logger.Warn("telegram: failed to send message to chat=%d: %v", chatID, err)
	}
}

func (r *Router) sendWithMarkup(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := r.bot.Send(msg); err != nil {
		r.logger.Warn("telegram: failed to send message to chat=%d: %v", chatID, err)
	}
}

func (r *Router) answerCallback(id string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		r.logger.Warn("telegram: failed to answer callback: %v", err)
	}
}
