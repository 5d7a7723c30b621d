package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/internal/usecase/get_available_slots"
)

// Тексты интерфейса
const (
	textStart = "👋 Здравствуйте! Я бот для записи в салон.\n\n" +
		"Нажмите «📅 Записаться», чтобы выбрать услугу и время.\n" +
		"«🗓 Мои записи» покажет ваши активные заявки."

	textChooseService = "Выберите услугу:"
	textNoServices    = "Сейчас нет доступных услуг. Загляните позже."
	textChooseDate    = "Выберите дату:"
	textChooseTime    = "Свободное время на %s:"
	textNoSlots       = "На %s свободного времени нет. Выберите другую дату."
	textAskComment    = "Добавьте комментарий к записи или нажмите «Пропустить»."
	textAskPhone      = "Оставьте номер телефона для связи или нажмите «Пропустить»."
	textBadPhone      = "Не похоже на номер телефона. Пример: +79991234567"

	textHoldCreated = "✅ Заявка №%d отправлена мастеру.\n\n" +
		"Услуга: %s\nДата: %s\nВремя: %s\n\n" +
		"Если мастер не подтвердит запись до %s, она будет отменена автоматически."

	textSlotTaken    = "Увы, это время уже заняли. Выберите другое."
	textTooLate      = "До этого времени осталось слишком мало, выберите слот позже."
	textHoldFailed   = "Не получилось создать заявку. Попробуйте еще раз."
	textSessionLost  = "Диалог записи сброшен. Нажмите «📅 Записаться», чтобы начать заново."
	textNoActive     = "У вас нет активных записей."
	textCancelled    = "Запись №%d отменена."
	textCancelFailed = "Не получилось отменить запись №%d."

	textConfirmedByMaster = "🎉 Мастер подтвердил вашу запись №%d (%s). Ждем вас!"
	textRejectedByMaster  = "😔 Мастер не смог подтвердить запись №%d (%s). Выберите другое время."

	textAdminOnly      = "Эта команда доступна только мастеру."
	textAdminNewHold   = "🆕 Заявка №%d\n\nУслуга: %s\nДата: %s\nВремя: %s\nКлиент: %d"
	textAdminConfirmed = "Заявка №%d подтверждена."
	textAdminRejected  = "Заявка №%d отклонена."
	textAdminDecideErr = "Не получилось обработать заявку №%d: %s"
	textAdminCancelled = "Клиент отменил запись №%d (%s, %s %s)."

	textSettingsUsage = "Изменение настройки: /set <ключ> <значение>\n" +
		"Например: /set work_start 09:00"
	textSettingUpdated = "Настройка обновлена."

	textBlockUsage = "Блокировка времени: /block <дата> <с> <до> [причина]\n" +
		"Например: /block 2026-03-10 13:00 15:00 обед\n" +
		"Список: /blocks, снятие: /unblock <номер>"
	textBlocksEmpty   = "Заблокированных интервалов впереди нет."
	textBlockCreated  = "⛔️ Интервал №%d заблокирован: %s %s-%s."
	textBlockRemoved  = "Интервал №%d снят."
	textBlockNotFound = "Интервал №%d не найден."

	textAddServiceUsage = "Новая услуга: /addservice <название>; <цена>; <минуты>[; буфер]\n" +
		"Например: /addservice Стрижка; 1500; 60; 15"
	textServiceAdded = "Услуга №%d «%s» добавлена: %.0f ₽, %d мин, буфер %d мин."
)

// Статусы в ответах клиенту
var statusTitles = map[string]string{
	string(domain.StatusHold):      "ожидает подтверждения",
	string(domain.StatusBooked):    "подтверждена",
	string(domain.StatusRejected):  "отклонена",
	string(domain.StatusCancelled): "отменена",
}

var weekdayShort = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func formatDateButton(d time.Time) string {
	return fmt.Sprintf("%s %s", weekdayShort[int(d.Weekday())], d.Format("02.01"))
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📅 Записаться"),
			tgbotapi.NewKeyboardButton("🗓 Мои записи"),
		),
	)
}

func servicesKeyboard(services []*domain.Service) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services))
	for _, s := range services {
		label := fmt.Sprintf("%s · %.0f ₽ · %d мин", s.Name, s.Price, s.DurationMinutes)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("svc:%d", s.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func datesKeyboard(dates []time.Time) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	row := make([]tgbotapi.InlineKeyboardButton, 0, 3)

	for _, d := range dates {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			formatDateButton(d), "day:"+d.Format(domain.DateFormat),
		))
		if len(row) == 3 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 3)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ К услугам", "back:svc"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func slotsKeyboard(slots []get_available_slots.Slot) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	row := make([]tgbotapi.InlineKeyboardButton, 0, 4)

	for _, s := range slots {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			s.StartTime.String(), "slot:"+s.StartTime.String(),
		))
		if len(row) == 4 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 4)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ К датам", "back:date"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// skipKeyboard клавиатура шага с пропуском и возвратом на предыдущий шаг
func skipKeyboard(what string) tgbotapi.InlineKeyboardMarkup {
	back := "back:time"
	backLabel := "⬅️ Ко времени"
	if what == "phone" {
		back = "back:comment"
		backLabel = "⬅️ К комментарию"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Пропустить", "skip:"+what),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(backLabel, back),
		),
	)
}

func adminDecisionKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", fmt.Sprintf("adm:ok:%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("adm:no:%d", id)),
		),
	)
}

func cancelKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❌ Отменить №%d", id), fmt.Sprintf("cancel:%d", id),
			),
		),
	)
}
