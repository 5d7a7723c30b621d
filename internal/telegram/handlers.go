package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/internal/infra/storage/blocked"
	"github.com/avkuzn/Salon-BookingBot/internal/service/appointments"
	"github.com/avkuzn/Salon-BookingBot/internal/usecase/create_hold"
	"github.com/avkuzn/Salon-BookingBot/internal/usecase/get_available_slots"
	"github.com/avkuzn/Salon-BookingBot/pkg/ptr"
	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// --- Основные команды ---

func (r *Router) handleStart(chatID int64) {
	r.sessions.clear(chatID)
	r.sendWithMarkup(chatID, textStart, mainMenuKeyboard())
}

func (r *Router) handleBook(ctx context.Context, chatID int64) {
	r.sessions.clear(chatID)

	services, err := r.catalogRepo.ListActive(ctx)
	if err != nil {
		r.logger.Error("handleBook: failed to list services for chat=%d: %v", chatID, err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	if len(services) == 0 {
		r.sendText(chatID, textNoServices)
		return
	}

	r.sendWithMarkup(chatID, textChooseService, servicesKeyboard(services))
}

func (r *Router) handleMyAppointments(ctx context.Context, chatID int64) {
	list, err := r.appointments.ListForClient(ctx, chatID, true)
	if err != nil {
		r.logger.Error("handleMyAppointments: failed for chat=%d: %v", chatID, err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	if len(list.Appointments) == 0 {
		r.sendText(chatID, textNoActive)
		return
	}

	for _, a := range list.Appointments {
		local := a.StartAt.In(r.location)
		body := fmt.Sprintf("№%d · %s\n%s %s · %s",
			a.ID, a.ServiceName,
			formatDateButton(local), local.Format(domain.TimeFormat),
			statusTitles[a.Status])
		r.sendWithMarkup(chatID, body, cancelKeyboard(a.ID))
	}
}

// --- Диалог записи ---

func (r *Router) handleServiceCallback(ctx context.Context, chatID int64, data, cbID string) {
	r.answerCallback(cbID)

	serviceID, err := strconv.ParseInt(strings.TrimPrefix(data, "svc:"), 10, 64)
	if err != nil || serviceID <= 0 {
		return
	}

	services, err := r.catalogRepo.ListActive(ctx)
	if err != nil {
		r.logger.Error("handleServiceCallback: failed to list services: %v", err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	var serviceName string
	for _, s := range services {
		if s.ID == serviceID {
			serviceName = s.Name
			break
		}
	}
	if serviceName == "" {
		r.sendText(chatID, textSessionLost)
		return
	}

	dates, err := r.upcomingWorkDates(ctx)
	if err != nil {
		r.logger.Error("handleServiceCallback: failed to build dates: %v", err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	r.sessions.set(chatID, &session{
		Step:        stepDate,
		ServiceID:   serviceID,
		ServiceName: serviceName,
	})

	r.sendWithMarkup(chatID, textChooseDate, datesKeyboard(dates))
}

// upcomingWorkDates возвращает рабочие дни в пределах горизонта бронирования
func (r *Router) upcomingWorkDates(ctx context.Context) ([]time.Time, error) {
	settings, err := r.settingsRepo.GetBookingSettings(ctx)
	if err != nil {
		return nil, err
	}

	nowLocal := r.timeProvider.Now().In(r.location)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, r.location)

	dates := make([]time.Time, 0, settings.BookingHorizonDays)
	for i := 0; i <= settings.BookingHorizonDays; i++ {
		d := today.AddDate(0, 0, i)
		if settings.IsWorkDay(d.Weekday()) {
			dates = append(dates, d)
		}
	}

	return dates, nil
}

func (r *Router) handleDateCallback(ctx context.Context, chatID int64, data, cbID string) {
	r.answerCallback(cbID)

	sess := r.sessions.get(chatID)
	if sess == nil || (sess.Step != stepDate && sess.Step != stepTime) {
		r.sendText(chatID, textSessionLost)
		return
	}

	date, err := time.ParseInLocation(domain.DateFormat, strings.TrimPrefix(data, "day:"), r.location)
	if err != nil {
		return
	}

	r.showSlots(ctx, chatID, sess, date)
}

// showSlots показывает свободное время на дату и переводит диалог на выбор слота
func (r *Router) showSlots(ctx context.Context, chatID int64, sess *session, date time.Time) {
	resp, err := r.slotsUC.Execute(ctx, &get_available_slots.Request{
		ChatID:    chatID,
		ServiceID: sess.ServiceID,
		Date:      date,
	})
	if err != nil {
		r.logger.Warn("showSlots: slots failed for chat=%d: %v", chatID, err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	if len(resp.Slots) == 0 {
		r.sendText(chatID, fmt.Sprintf(textNoSlots, formatDateButton(date)))
		return
	}

	slots := resp.Slots
	if len(slots) > domain.MaxSlotsPerDayKeyboard {
		slots = slots[:domain.MaxSlotsPerDayKeyboard]
	}

	sess.Date = date
	sess.Step = stepTime
	r.sessions.set(chatID, sess)

	r.sendWithMarkup(chatID, fmt.Sprintf(textChooseTime, formatDateButton(date)), slotsKeyboard(slots))
}

// handleBackCallback возвращает диалог на предыдущий шаг
func (r *Router) handleBackCallback(ctx context.Context, chatID int64, data, cbID string) {
	r.answerCallback(cbID)

	switch strings.TrimPrefix(data, "back:") {
	case "svc":
		r.handleBook(ctx, chatID)

	case "date":
		sess := r.sessions.get(chatID)
		if sess == nil {
			r.sendText(chatID, textSessionLost)
			return
		}
		dates, err := r.upcomingWorkDates(ctx)
		if err != nil {
			r.logger.Error("handleBackCallback: failed to build dates: %v", err)
			r.sendText(chatID, textHoldFailed)
			return
		}
		sess.Step = stepDate
		r.sessions.set(chatID, sess)
		r.sendWithMarkup(chatID, textChooseDate, datesKeyboard(dates))

	case "time":
		sess := r.sessions.get(chatID)
		if sess == nil || sess.Date.IsZero() {
			r.sendText(chatID, textSessionLost)
			return
		}
		r.showSlots(ctx, chatID, sess, sess.Date)

	case "comment":
		sess := r.sessions.get(chatID)
		if sess == nil {
			r.sendText(chatID, textSessionLost)
			return
		}
		sess.Step = stepComment
		r.sessions.set(chatID, sess)
		r.sendWithMarkup(chatID, textAskComment, skipKeyboard("comment"))
	}
}

func (r *Router) handleSlotCallback(ctx context.Context, chatID int64, data, cbID string) {
	r.answerCallback(cbID)

	sess := r.sessions.get(chatID)
	if sess == nil || sess.Step != stepTime {
		r.sendText(chatID, textSessionLost)
		return
	}

	startTime, err := types.NewTimeStringFromString(strings.TrimPrefix(data, "slot:"))
	if err != nil {
		return
	}

	sess.StartTime = startTime
	sess.Step = stepComment
	r.sessions.set(chatID, sess)

	r.sendWithMarkup(chatID, textAskComment, skipKeyboard("comment"))
}

func (r *Router) handleCommentSkip(chatID int64, cbID string) {
	r.answerCallback(cbID)

	sess := r.sessions.get(chatID)
	if sess == nil || sess.Step != stepComment {
		r.sendText(chatID, textSessionLost)
		return
	}

	sess.Step = stepPhone
	r.sessions.set(chatID, sess)
	r.sendWithMarkup(chatID, textAskPhone, skipKeyboard("phone"))
}

func (r *Router) handlePhoneSkip(ctx context.Context, chatID int64, cbID string) {
	r.answerCallback(cbID)

	sess := r.sessions.get(chatID)
	if sess == nil || sess.Step != stepPhone {
		r.sendText(chatID, textSessionLost)
		return
	}

	r.submitHold(ctx, chatID, sess, nil)
}

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	sess := r.sessions.get(chatID)
	if sess == nil {
		return
	}

	switch sess.Step {
	case stepComment:
		if len([]rune(text)) > domain.MaxCommentLength {
			text = string([]rune(text)[:domain.MaxCommentLength])
		}
		sess.Comment = ptr.Ptr(text)
		sess.Step = stepPhone
		r.sessions.set(chatID, sess)
		r.sendWithMarkup(chatID, textAskPhone, skipKeyboard("phone"))

	case stepPhone:
		phone, ok := normalizePhone(text)
		if !ok {
			r.sendText(chatID, textBadPhone)
			return
		}
		r.submitHold(ctx, chatID, sess, ptr.Ptr(phone))

	default:
		// Вне диалога свободный текст игнорируется
	}
}

// normalizePhone принимает номер в свободной форме и приводит его к цифрам
func normalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for i, c := range raw {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '+' && i == 0:
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '(' || c == ')':
			// Разделители отбрасываются
		default:
			return "", false
		}
	}

	digits := strings.TrimPrefix(b.String(), "+")
	if len(digits) < 10 || len(digits) > 15 {
		return "", false
	}

	return b.String(), true
}

func (r *Router) submitHold(ctx context.Context, chatID int64, sess *session, phone *string) {
	resp, err := r.holdUC.Execute(ctx, &create_hold.Request{
		ChatID:      chatID,
		ServiceID:   sess.ServiceID,
		Date:        sess.Date,
		StartTime:   sess.StartTime,
		Comment:     sess.Comment,
		ClientPhone: phone,
	})

	if err != nil {
		switch {
		case errors.Is(err, create_hold.ErrSlotNotAvailable):
			// Слот заняли, пока клиент заполнял детали: возвращаем на выбор времени
			sess.Step = stepTime
			r.sessions.set(chatID, sess)
			r.sendText(chatID, textSlotTaken)
		case errors.Is(err, create_hold.ErrTooLateToBook):
			sess.Step = stepTime
			r.sessions.set(chatID, sess)
			r.sendText(chatID, textTooLate)
		default:
			r.logger.Error("submitHold: failed for chat=%d: %v", chatID, err)
			r.sessions.clear(chatID)
			r.sendText(chatID, textHoldFailed)
		}
		return
	}

	r.sessions.clear(chatID)

	expiresLocal := resp.HoldExpiresAt.In(r.location).Format(domain.TimeFormat)
	r.sendWithMarkup(chatID, fmt.Sprintf(textHoldCreated,
		resp.ID, resp.ServiceName,
		formatDateButton(resp.Date), resp.StartTime.String(),
		expiresLocal,
	), mainMenuKeyboard())

	// Мастер получает заявку с кнопками решения
	adminText := fmt.Sprintf(textAdminNewHold,
		resp.ID, resp.ServiceName,
		formatDateButton(resp.Date), resp.StartTime.String(),
		chatID)
	if resp.Comment != nil {
		adminText += "\nКомментарий: " + *resp.Comment
	}
	if resp.ClientPhone != nil {
		adminText += "\nТелефон: " + *resp.ClientPhone
	}
	r.sendWithMarkup(r.adminChatID, adminText, adminDecisionKeyboard(resp.ID))
}

// --- Отмена клиентом ---

func (r *Router) handleCancelCallback(ctx context.Context, chatID int64, data, cbID string) {
	r.answerCallback(cbID)

	id, err := strconv.ParseInt(strings.TrimPrefix(data, "cancel:"), 10, 64)
	if err != nil || id <= 0 {
		return
	}

	cancelled, err := r.appointments.Cancel(ctx, id, chatID)
	if err != nil {
		r.logger.Warn("handleCancelCallback: cancel id=%d by chat=%d failed: %v", id, chatID, err)
		r.sendText(chatID, fmt.Sprintf(textCancelFailed, id))
		return
	}

	r.sendText(chatID, fmt.Sprintf(textCancelled, id))

	local := cancelled.StartAt.In(r.location)
	r.sendText(r.adminChatID, fmt.Sprintf(textAdminCancelled,
		id, cancelled.ServiceName, formatDateButton(local), local.Format(domain.TimeFormat)))
}

// --- Решения мастера ---

func (r *Router) handleAdminDecision(ctx context.Context, chatID int64, data, cbID string) {
	r.answerCallback(cbID)

	if chatID != r.adminChatID {
		r.sendText(chatID, textAdminOnly)
		return
	}

	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id <= 0 {
		return
	}

	var confirm bool
	switch parts[1] {
	case "ok":
		confirm = true
	case "no":
		confirm = false
	default:
		return
	}

	var decision func(context.Context, int64) (*decisionResult, error)
	if confirm {
		decision = r.confirmAppointment
	} else {
		decision = r.rejectAppointment
	}

	result, err := decision(ctx, id)
	if err != nil {
		r.sendText(chatID, fmt.Sprintf(textAdminDecideErr, id, decisionErrorText(err)))
		return
	}

	if confirm {
		r.sendText(chatID, fmt.Sprintf(textAdminConfirmed, id))
		r.sendText(result.clientChatID, fmt.Sprintf(textConfirmedByMaster, id, result.serviceName))
	} else {
		r.sendText(chatID, fmt.Sprintf(textAdminRejected, id))
		r.sendText(result.clientChatID, fmt.Sprintf(textRejectedByMaster, id, result.serviceName))
	}
}

type decisionResult struct {
	clientChatID int64
	serviceName  string
}

func (r *Router) confirmAppointment(ctx context.Context, id int64) (*decisionResult, error) {
	dec, err := r.appointments.Confirm(ctx, id)
	if err != nil {
		return nil, err
	}
	return &decisionResult{clientChatID: dec.ClientChatID, serviceName: dec.Appointment.ServiceName}, nil
}

func (r *Router) rejectAppointment(ctx context.Context, id int64) (*decisionResult, error) {
	dec, err := r.appointments.Reject(ctx, id)
	if err != nil {
		return nil, err
	}
	return &decisionResult{clientChatID: dec.ClientChatID, serviceName: dec.Appointment.ServiceName}, nil
}

func decisionErrorText(err error) string {
	switch {
	case errors.Is(err, appointments.ErrHoldExpired):
		return "время на подтверждение истекло"
	case errors.Is(err, appointments.ErrInvalidTransition):
		return "заявка уже обработана"
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		return "заявка не найдена"
	default:
		return "внутренняя ошибка"
	}
}

// --- Настройки мастера ---

func (r *Router) handleSettingsShow(ctx context.Context, chatID int64) {
	if chatID != r.adminChatID {
		r.sendText(chatID, textAdminOnly)
		return
	}

	s, err := r.settingsSvc.Get(ctx)
	if err != nil {
		r.logger.Error("handleSettingsShow: %v", err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	body := fmt.Sprintf(
		"⚙️ Настройки расписания:\n\n"+
			"slot_step_min: %d\n"+
			"min_lead_time_min: %d\n"+
			"work_start: %s\n"+
			"work_end: %s\n"+
			"work_days: %s\n"+
			"hold_timeout_min: %d\n"+
			"booking_horizon_days: %d\n\n"+
			textSettingsUsage,
		s.SlotStepMinutes, s.MinLeadTimeMinutes,
		s.WorkStart, s.WorkEnd, s.WorkDays,
		s.HoldTimeoutMinutes, s.BookingHorizonDays,
	)
	r.sendText(chatID, body)
}

func (r *Router) handleSettingsUpdate(ctx context.Context, chatID int64, text string) {
	if chatID != r.adminChatID {
		r.sendText(chatID, textAdminOnly)
		return
	}

	fields := strings.Fields(text)
	if len(fields) != 3 {
		r.sendText(chatID, textSettingsUsage)
		return
	}

	if _, err := r.settingsSvc.Update(ctx, fields[1], fields[2]); err != nil {
		r.logger.Warn("handleSettingsUpdate: %s=%s rejected: %v", fields[1], fields[2], err)
		r.sendText(chatID, "Не получилось применить настройку: "+err.Error())
		return
	}

	r.sendText(chatID, textSettingUpdated)
}

// --- Блокировки времени ---

func (r *Router) handleBlockList(ctx context.Context, chatID int64) {
	if chatID != r.adminChatID {
		r.sendText(chatID, textAdminOnly)
		return
	}

	settings, err := r.settingsRepo.GetBookingSettings(ctx)
	if err != nil {
		r.logger.Error("handleBlockList: failed to load settings: %v", err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	now := r.timeProvider.Now().UTC()
	intervals, err := r.blockedRepo.ListInWindow(ctx, now, now.AddDate(0, 0, settings.BookingHorizonDays+1))
	if err != nil {
		r.logger.Error("handleBlockList: failed to list intervals: %v", err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	if len(intervals) == 0 {
		r.sendText(chatID, textBlocksEmpty+"\n\n"+textBlockUsage)
		return
	}

	var b strings.Builder
	b.WriteString("⛔️ Заблокированные интервалы:\n")
	for _, iv := range intervals {
		st := iv.StartAt.In(r.location)
		en := iv.EndAt.In(r.location)
		fmt.Fprintf(&b, "\n№%d · %s %s-%s",
			iv.ID, formatDateButton(st),
			st.Format(domain.TimeFormat), en.Format(domain.TimeFormat))
		if iv.Reason != nil && *iv.Reason != "" {
			b.WriteString(" · " + *iv.Reason)
		}
	}
	b.WriteString("\n\n" + textBlockUsage)
	r.sendText(chatID, b.String())
}

func (r *Router) handleBlockAdd(ctx context.Context, chatID int64, text string) {
	if chatID != r.adminChatID {
		r.sendText(chatID, textAdminOnly)
		return
	}

	start, end, reason, err := parseBlockCommand(strings.Fields(text), r.location)
	if err != nil {
		r.sendText(chatID, textBlockUsage)
		return
	}

	created, err := r.blockedRepo.Create(ctx, &domain.BlockedInterval{
		StartAt: start,
		EndAt:   end,
		Reason:  reason,
	})
	if err != nil {
		r.logger.Error("handleBlockAdd: failed to create interval: %v", err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	local := created.StartAt.In(r.location)
	r.sendText(chatID, fmt.Sprintf(textBlockCreated,
		created.ID, formatDateButton(local),
		local.Format(domain.TimeFormat), created.EndAt.In(r.location).Format(domain.TimeFormat)))
}

// parseBlockCommand разбирает "/block <дата> <с> <до> [причина]" в границы интервала
func parseBlockCommand(fields []string, loc *time.Location) (time.Time, time.Time, *string, error) {
	if len(fields) < 4 {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("block command: expected at least 4 fields, got %d", len(fields))
	}

	date, err := time.ParseInLocation(domain.DateFormat, fields[1], loc)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("block command: bad date %q: %v", fields[1], err)
	}

	from, err := types.NewTimeStringFromString(fields[2])
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("block command: bad start time %q: %v", fields[2], err)
	}
	to, err := types.NewTimeStringFromString(fields[3])
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("block command: bad end time %q: %v", fields[3], err)
	}

	start, err := from.At(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	end, err := to.At(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("block command: end %s is not after start %s", to, from)
	}

	var reason *string
	if len(fields) > 4 {
		reason = ptr.Ptr(strings.Join(fields[4:], " "))
	}

	return start.UTC(), end.UTC(), reason, nil
}

// --- Каталог услуг ---

func (r *Router) handleAddService(ctx context.Context, chatID int64, text string) {
	if chatID != r.adminChatID {
		r.sendText(chatID, textAdminOnly)
		return
	}

	service, err := parseAddServiceCommand(text)
	if err != nil {
		r.sendText(chatID, textAddServiceUsage)
		return
	}

	created, err := r.catalogRepo.Create(ctx, service)
	if err != nil {
		r.logger.Error("handleAddService: failed to create service: %v", err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	r.sendText(chatID, fmt.Sprintf(textServiceAdded,
		created.ID, created.Name, created.Price, created.DurationMinutes, created.BufferMinutes))
}

// parseAddServiceCommand разбирает "/addservice <название>; <цена>; <минуты>[; буфер]"
func parseAddServiceCommand(text string) (*domain.Service, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "/addservice"))
	parts := strings.Split(rest, ";")
	if len(parts) < 3 || len(parts) > 4 {
		return nil, fmt.Errorf("addservice command: expected 3 or 4 fields, got %d", len(parts))
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil, fmt.Errorf("addservice command: empty service name")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("addservice command: bad price %q", strings.TrimSpace(parts[1]))
	}

	duration, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || duration < domain.MinServiceDurationMin || duration > domain.MaxServiceDurationMin {
		return nil, fmt.Errorf("addservice command: bad duration %q", strings.TrimSpace(parts[2]))
	}

	buffer := 0
	if len(parts) == 4 {
		buffer, err = strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil || buffer < 0 {
			return nil, fmt.Errorf("addservice command: bad buffer %q", strings.TrimSpace(parts[3]))
		}
	}

	return &domain.Service{
		Name:            name,
		DurationMinutes: duration,
		BufferMinutes:   buffer,
		Price:           price,
		Active:          true,
	}, nil
}

func (r *Router) handleBlockRemove(ctx context.Context, chatID int64, text string) {
	if chatID != r.adminChatID {
		r.sendText(chatID, textAdminOnly)
		return
	}

	fields := strings.Fields(text)
	if len(fields) != 2 {
		r.sendText(chatID, textBlockUsage)
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id <= 0 {
		r.sendText(chatID, textBlockUsage)
		return
	}

	if err := r.blockedRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blocked.ErrIntervalNotFound) {
			r.sendText(chatID, fmt.Sprintf(textBlockNotFound, id))
			return
		}
		r.logger.Error("handleBlockRemove: failed to delete interval id=%d: %v", id, err)
		r.sendText(chatID, textHoldFailed)
		return
	}

	r.sendText(chatID, fmt.Sprintf(textBlockRemoved, id))
}
