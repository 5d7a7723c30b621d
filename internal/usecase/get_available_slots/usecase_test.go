package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	catalogRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/catalog"
	"github.com/avkuzn/Salon-BookingBot/pkg/ptr"
	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) ListActiveInWindow(_ context.Context, _, _, _ time.Time) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeBlockedRepo struct {
	intervals []*domain.BlockedInterval
	err       error
}

func (f *fakeBlockedRepo) ListInWindow(_ context.Context, _, _ time.Time) ([]*domain.BlockedInterval, error) {
	return f.intervals, f.err
}

type fakeCatalogRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, f.err
}

type fakeSettingsRepo struct {
	settings *domain.BookingSettings
	err      error
}

func (f *fakeSettingsRepo) GetBookingSettings(_ context.Context) (*domain.BookingSettings, error) {
	return f.settings, f.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testSettings() *domain.BookingSettings {
	days, _ := domain.ParseWorkDays("0,1,2,3,4")
	return &domain.BookingSettings{
		SlotStepMinutes:    30,
		MinLeadTimeMinutes: 120,
		WorkStart:          types.TimeString("10:00"),
		WorkEnd:            types.TimeString("18:00"),
		WorkDays:           days,
		HoldTimeoutMinutes: 30,
		BookingHorizonDays: 14,
	}
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              1,
		Name:            "Стрижка",
		DurationMinutes: 60,
		BufferMinutes:   15,
		Price:           1500,
		Active:          true,
	}
}

// Вторник, рабочий день
var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// 09:00 того же дня: с lead time 120 минут первый доступный слот 11:00
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestUseCase(
	appointments *fakeAppointmentRepo,
	blocked *fakeBlockedRepo,
	catalog *fakeCatalogRepo,
	settings *fakeSettingsRepo,
) *UseCase {
	uc := NewUseCase(appointments, blocked, catalog, settings, time.UTC, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func slotTimes(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String())
	}
	return out
}

func TestExecute_FreeDay(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	resp, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	// Кандидаты 10:00..17:00, lead time отсекает все до 11:00
	require.Len(t, resp.Slots, 13)
	assert.Equal(t, "11:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "17:00", resp.Slots[12].StartTime.String())
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), resp.Slots[0].StartAt)
}

func TestExecute_Idempotent(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	req := &Request{ChatID: 100, ServiceID: 1, Date: testDate}
	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func TestExecute_BlockedIntervalExcludesOverlappingSlots(t *testing.T) {
	blocked := &fakeBlockedRepo{intervals: []*domain.BlockedInterval{{
		ID:      1,
		StartAt: time.Date(2026, 3, 10, 13, 15, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC),
	}}}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		blocked,
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	resp, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	times := slotTimes(resp.Slots)
	// Занятое окно слота 12:30 это [12:30, 13:45), слота 13:00 это [13:00, 14:15),
	// оба пересекают блокировку. Окно 12:00 кончается ровно в 13:15 и не пересекает.
	assert.NotContains(t, times, "12:30")
	assert.NotContains(t, times, "13:00")
	assert.Contains(t, times, "12:00")
	assert.Contains(t, times, "13:30")
}

func TestExecute_ActiveAppointmentOccupiesWindow(t *testing.T) {
	appointments := &fakeAppointmentRepo{appointments: []*domain.Appointment{{
		ID:            1,
		Status:        domain.StatusBooked,
		StartAt:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		EndAt:         time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		BufferMinutes: 15,
	}}}

	uc := newTestUseCase(
		appointments,
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	resp, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	// Запись занимает [14:00, 15:15); выбывают слоты с 13:00 по 15:00
	assert.Equal(t, []string{"11:00", "11:30", "12:00", "12:30", "15:30", "16:00", "16:30", "17:00"}, slotTimes(resp.Slots))
}

func TestExecute_ExpiredHoldDoesNotOccupy(t *testing.T) {
	appointments := &fakeAppointmentRepo{appointments: []*domain.Appointment{{
		ID:            1,
		Status:        domain.StatusHold,
		HoldExpiresAt: ptr.Ptr(testNow.Add(-time.Minute)),
		StartAt:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		EndAt:         time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		BufferMinutes: 15,
	}}}

	uc := newTestUseCase(
		appointments,
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	resp, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 13)
}

func TestExecute_NonWorkDayReturnsEmptyList(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	// Воскресенье
	sunday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: sunday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateValidation(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	past := testDate.AddDate(0, 0, -1)
	_, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: past})
	assert.ErrorIs(t, err, ErrInvalidDate)

	tooFar := testDate.AddDate(0, 0, 15)
	_, err = uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: tooFar})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_ServiceErrors(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		&fakeCatalogRepo{err: catalogRepo.ErrServiceNotFound},
		&fakeSettingsRepo{settings: testSettings()},
	)

	_, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 42, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	inactive := testService()
	inactive.Active = false
	uc = newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: inactive},
		&fakeSettingsRepo{settings: testSettings()},
	)

	_, err = uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		&fakeCatalogRepo{service: testService()},
		&fakeSettingsRepo{settings: testSettings()},
	)

	_, err := uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 0, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ChatID: 100, ServiceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
