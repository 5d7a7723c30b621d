package run_maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/pkg/ptr"
)

type statusChange struct {
	id     int64
	status domain.AppointmentStatus
}

type reminderMark struct {
	id   int64
	kind domain.NotificationKind
}

type fakeAppointmentRepo struct {
	expiredHolds []*domain.Appointment
	booked       []*domain.Appointment

	listExpiredErr error
	listBookedErr  error
	updateErr      error
	markErr        error

	statusChanges []statusChange
	reminderMarks []reminderMark
}

func (f *fakeAppointmentRepo) ListExpiredHolds(_ context.Context, _ time.Time) ([]*domain.Appointment, error) {
	return f.expiredHolds, f.listExpiredErr
}

func (f *fakeAppointmentRepo) ListBookedBetween(_ context.Context, _, _ time.Time) ([]*domain.Appointment, error) {
	return f.booked, f.listBookedErr
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusChanges = append(f.statusChanges, statusChange{id: id, status: status})
	return nil
}

func (f *fakeAppointmentRepo) MarkReminderSent(_ context.Context, id int64, kind domain.NotificationKind) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.reminderMarks = append(f.reminderMarks, reminderMark{id: id, kind: kind})
	return nil
}

type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeAppointmentRepo) *UseCase {
	uc := NewUseCase(repo, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_ExpiredHoldsRejected(t *testing.T) {
	repo := &fakeAppointmentRepo{expiredHolds: []*domain.Appointment{
		{ID: 1, ChatID: 100, Status: domain.StatusHold, HoldExpiresAt: ptr.Ptr(testNow.Add(-time.Minute)), ServiceName: "Стрижка"},
		{ID: 2, ChatID: 200, Status: domain.StatusHold, HoldExpiresAt: ptr.Ptr(testNow.Add(-time.Hour)), ServiceName: "Маникюр"},
	}}

	result, err := newTestUseCase(repo).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.ExpiredHolds)
	assert.Equal(t, []statusChange{
		{id: 1, status: domain.StatusRejected},
		{id: 2, status: domain.StatusRejected},
	}, repo.statusChanges)

	require.Len(t, result.Notifications, 2)
	assert.Equal(t, domain.NotificationHoldExpired, result.Notifications[0].Kind)
	assert.Equal(t, int64(100), result.Notifications[0].ChatID)
	assert.Equal(t, "Стрижка", result.Notifications[0].ServiceName)
}

func TestExecute_Reminder24h(t *testing.T) {
	// Старт через 23.5 часа: попадает в окно [24h, 23h] до начала
	repo := &fakeAppointmentRepo{booked: []*domain.Appointment{{
		ID:      3,
		ChatID:  100,
		Status:  domain.StatusBooked,
		StartAt: testNow.Add(23*time.Hour + 30*time.Minute),
	}}}

	result, err := newTestUseCase(repo).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Reminders24h)
	assert.Equal(t, 0, result.Reminders2h)
	assert.Equal(t, []reminderMark{{id: 3, kind: domain.NotificationReminder24h}}, repo.reminderMarks)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, domain.NotificationReminder24h, result.Notifications[0].Kind)
}

func TestExecute_Reminder2h(t *testing.T) {
	repo := &fakeAppointmentRepo{booked: []*domain.Appointment{{
		ID:      4,
		ChatID:  100,
		Status:  domain.StatusBooked,
		StartAt: testNow.Add(90 * time.Minute),
	}}}

	result, err := newTestUseCase(repo).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Reminders24h)
	assert.Equal(t, 1, result.Reminders2h)
	assert.Equal(t, []reminderMark{{id: 4, kind: domain.NotificationReminder2h}}, repo.reminderMarks)
}

func TestExecute_ReminderSentOnlyOnce(t *testing.T) {
	repo := &fakeAppointmentRepo{booked: []*domain.Appointment{{
		ID:              5,
		ChatID:          100,
		Status:          domain.StatusBooked,
		StartAt:         testNow.Add(90 * time.Minute),
		Reminder2hSent:  true,
		Reminder24hSent: true,
	}}}

	result, err := newTestUseCase(repo).Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Reminders24h)
	assert.Zero(t, result.Reminders2h)
	assert.Empty(t, repo.reminderMarks)
	assert.Empty(t, result.Notifications)
}

func TestExecute_OutsideReminderWindows(t *testing.T) {
	repo := &fakeAppointmentRepo{booked: []*domain.Appointment{
		// Слишком рано для суточного напоминания
		{ID: 6, Status: domain.StatusBooked, StartAt: testNow.Add(26 * time.Hour)},
		// Окно суточного уже прошло, двухчасовое еще не наступило
		{ID: 7, Status: domain.StatusBooked, StartAt: testNow.Add(12 * time.Hour)},
		// Визит уже начался
		{ID: 8, Status: domain.StatusBooked, StartAt: testNow.Add(-time.Hour)},
	}}

	result, err := newTestUseCase(repo).Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repo.reminderMarks)
	assert.Empty(t, result.Notifications)
}

func TestExecute_BothRemindersForOneAppointment(t *testing.T) {
	// Крайний случай короткого горизонта: оба окна покрывают старт
	// невозможно (они не пересекаются), но запись с неотправленным
	// суточным напоминанием в двухчасовом окне получает только его
	repo := &fakeAppointmentRepo{booked: []*domain.Appointment{{
		ID:      9,
		ChatID:  100,
		Status:  domain.StatusBooked,
		StartAt: testNow.Add(90 * time.Minute),
	}}}

	result, err := newTestUseCase(repo).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Reminders24h)
	assert.Equal(t, 1, result.Reminders2h)
}

func TestExecute_RepoErrorAbortsPass(t *testing.T) {
	repo := &fakeAppointmentRepo{
		expiredHolds:   nil,
		listExpiredErr: errors.New("db down"),
	}

	_, err := newTestUseCase(repo).Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)

	repo = &fakeAppointmentRepo{
		expiredHolds: []*domain.Appointment{{ID: 1, Status: domain.StatusHold}},
		updateErr:    errors.New("db down"),
	}

	_, err = newTestUseCase(repo).Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)

	repo = &fakeAppointmentRepo{
		booked:  []*domain.Appointment{{ID: 2, Status: domain.StatusBooked, StartAt: testNow.Add(90 * time.Minute)}},
		markErr: errors.New("db down"),
	}

	_, err = newTestUseCase(repo).Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_EmptyPass(t *testing.T) {
	result, err := newTestUseCase(&fakeAppointmentRepo{}).Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.ExpiredHolds)
	assert.Empty(t, result.Notifications)
}

func TestInReminderWindow(t *testing.T) {
	start := testNow.Add(domain.Reminder24hLead)

	// Границы окна включительно
	assert.True(t, inReminderWindow(testNow, start, domain.Reminder24hLead))
	assert.True(t, inReminderWindow(testNow, start.Add(-domain.ReminderWindow), domain.Reminder24hLead))
	assert.False(t, inReminderWindow(testNow, start.Add(time.Minute), domain.Reminder24hLead))
	assert.False(t, inReminderWindow(testNow, start.Add(-domain.ReminderWindow-time.Minute), domain.Reminder24hLead))
}
