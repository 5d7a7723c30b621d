package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/internal/service/appointments"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"+79991234567", "+79991234567", true},
		{"8 (999) 123-45-67", "89991234567", true},
		{"79991234567", "79991234567", true},
		{"+7 999 123 45 67", "+79991234567", true},
		{"123", "", false},
		{"abc", "", false},
		{"9991234567x", "", false},
		{"12345678901234567890", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := normalizePhone(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSessionStore(t *testing.T) {
	store := newSessionStore()

	assert.Nil(t, store.get(100))

	sess := &session{Step: stepDate, ServiceID: 1}
	store.set(100, sess)
	assert.Same(t, sess, store.get(100))
	assert.Nil(t, store.get(200))

	store.clear(100)
	assert.Nil(t, store.get(100))
}

func TestFormatDateButton(t *testing.T) {
	// Вторник
	assert.Equal(t, "Вт 10.03", formatDateButton(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	// Воскресенье
	assert.Equal(t, "Вс 15.03", formatDateButton(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestParseBlockCommand(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	t.Run("valid with reason", func(t *testing.T) {
		start, end, reason, err := parseBlockCommand(
			[]string{"/block", "2026-03-10", "13:00", "15:00", "обед", "и", "перерыв"}, loc)
		require.NoError(t, err)
		// 13:00 по Москве это 10:00 UTC
		assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), end)
		require.NotNil(t, reason)
		assert.Equal(t, "обед и перерыв", *reason)
	})

	t.Run("valid without reason", func(t *testing.T) {
		_, _, reason, err := parseBlockCommand([]string{"/block", "2026-03-10", "09:00", "10:00"}, loc)
		require.NoError(t, err)
		assert.Nil(t, reason)
	})

	t.Run("invalid", func(t *testing.T) {
		invalid := [][]string{
			{"/block"},
			{"/block", "2026-03-10", "13:00"},
			{"/block", "10.03.2026", "13:00", "15:00"},
			{"/block", "2026-03-10", "25:00", "26:00"},
			{"/block", "2026-03-10", "15:00", "13:00"},
			{"/block", "2026-03-10", "13:00", "13:00"},
		}
		for _, fields := range invalid {
			_, _, _, err := parseBlockCommand(fields, loc)
			assert.Error(t, err, "fields: %v", fields)
		}
	})
}

func TestParseAddServiceCommand(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		s, err := parseAddServiceCommand("/addservice Стрижка модельная; 1500; 60; 15")
		require.NoError(t, err)
		assert.Equal(t, "Стрижка модельная", s.Name)
		assert.Equal(t, 1500.0, s.Price)
		assert.Equal(t, 60, s.DurationMinutes)
		assert.Equal(t, 15, s.BufferMinutes)
		assert.True(t, s.Active)
	})

	t.Run("without buffer", func(t *testing.T) {
		s, err := parseAddServiceCommand("/addservice Маникюр; 2000; 90")
		require.NoError(t, err)
		assert.Equal(t, 0, s.BufferMinutes)
	})

	t.Run("invalid", func(t *testing.T) {
		invalid := []string{
			"/addservice",
			"/addservice Стрижка; 1500",
			"/addservice ; 1500; 60",
			"/addservice Стрижка; дорого; 60",
			"/addservice Стрижка; -1; 60",
			"/addservice Стрижка; 1500; 0",
			"/addservice Стрижка; 1500; 600",
			"/addservice Стрижка; 1500; 60; -5",
		}
		for _, text := range invalid {
			_, err := parseAddServiceCommand(text)
			assert.Error(t, err, "text: %s", text)
		}
	})
}

type fakeSettingsRepo struct {
	settings *domain.BookingSettings
}

func (f *fakeSettingsRepo) GetBookingSettings(context.Context) (*domain.BookingSettings, error) {
	return f.settings, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

func TestUpcomingWorkDates(t *testing.T) {
	workDays, err := domain.ParseWorkDays("0,1,2,3,4")
	require.NoError(t, err)

	r := &Router{
		settingsRepo: &fakeSettingsRepo{settings: &domain.BookingSettings{
			WorkDays:           workDays,
			BookingHorizonDays: 7,
		}},
		// Вторник
		timeProvider: &fixedTimeProvider{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
		location:     time.UTC,
	}

	dates, err := r.upcomingWorkDates(context.Background())
	require.NoError(t, err)

	// Выходные 14.03 и 15.03 выпадают из горизонта в 7 дней
	var got []string
	for _, d := range dates {
		got = append(got, d.Format(domain.DateFormat))
	}
	assert.Equal(t, []string{
		"2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13",
		"2026-03-16", "2026-03-17",
	}, got)
}

func TestDecisionErrorText(t *testing.T) {
	assert.Equal(t, "время на подтверждение истекло", decisionErrorText(appointments.ErrHoldExpired))
	assert.Equal(t, "заявка уже обработана", decisionErrorText(appointments.ErrInvalidTransition))
	assert.Equal(t, "заявка не найдена", decisionErrorText(appointments.ErrAppointmentNotFound))
	assert.Equal(t, "внутренняя ошибка", decisionErrorText(errors.New("boom")))
}
