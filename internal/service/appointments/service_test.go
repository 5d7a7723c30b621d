package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	appointmentRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/appointment"
	"github.com/avkuzn/Salon-BookingBot/pkg/ptr"
)

type fakeAppointmentRepo struct {
	appointment *domain.Appointment
	byChat      []*domain.Appointment
	getErr      error
	updateErr   error

	updatedID     int64
	updatedStatus domain.AppointmentStatus
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) ListByChatID(_ context.Context, _ int64, _ bool) ([]*domain.Appointment, error) {
	return f.byChat, f.getErr
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updatedStatus = status
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func newTestService(repo *fakeAppointmentRepo) *Service {
	svc := NewService(repo, fakeTxManager{}, nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: testNow}
	return svc
}

func holdAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            10,
		ChatID:        100,
		ServiceID:     1,
		StartAt:       testNow.Add(24 * time.Hour),
		EndAt:         testNow.Add(25 * time.Hour),
		Status:        domain.StatusHold,
		HoldExpiresAt: ptr.Ptr(testNow.Add(20 * time.Minute)),
		ServiceName:   "Стрижка",
	}
}

func TestConfirm(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: holdAppointment()}
	svc := newTestService(repo)

	resp, err := svc.Confirm(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusBooked, repo.updatedStatus)
	assert.Equal(t, string(domain.StatusBooked), resp.Appointment.Status)
	assert.Equal(t, int64(100), resp.ClientChatID)
	assert.Nil(t, resp.Appointment.HoldExpiresAt)
}

func TestConfirm_ExpiredHold(t *testing.T) {
	a := holdAppointment()
	a.HoldExpiresAt = ptr.Ptr(testNow.Add(-time.Minute))
	svc := newTestService(&fakeAppointmentRepo{appointment: a})

	_, err := svc.Confirm(context.Background(), 10)
	assert.ErrorIs(t, err, ErrHoldExpired)
}

func TestConfirm_InvalidTransitions(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusBooked, domain.StatusRejected, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			a := holdAppointment()
			a.Status = status
			a.HoldExpiresAt = nil
			svc := newTestService(&fakeAppointmentRepo{appointment: a})

			_, err := svc.Confirm(context.Background(), 10)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestReject(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: holdAppointment()}
	svc := newTestService(repo)

	resp, err := svc.Reject(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, repo.updatedStatus)
	assert.Equal(t, string(domain.StatusRejected), resp.Appointment.Status)
}

func TestReject_ExpiredHoldStillAllowed(t *testing.T) {
	// Отклонение просроченного удержания допустимо: результат для клиента
	// тот же, что и у автоматического отклонения
	a := holdAppointment()
	a.HoldExpiresAt = ptr.Ptr(testNow.Add(-time.Minute))
	repo := &fakeAppointmentRepo{appointment: a}
	svc := newTestService(repo)

	_, err := svc.Reject(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, repo.updatedStatus)
}

func TestReject_InvalidTransitions(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusBooked, domain.StatusRejected, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			a := holdAppointment()
			a.Status = status
			a.HoldExpiresAt = nil
			svc := newTestService(&fakeAppointmentRepo{appointment: a})

			_, err := svc.Reject(context.Background(), 10)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestCancel(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusHold, domain.StatusBooked} {
		t.Run(string(status), func(t *testing.T) {
			a := holdAppointment()
			a.Status = status
			if status != domain.StatusHold {
				a.HoldExpiresAt = nil
			}
			repo := &fakeAppointmentRepo{appointment: a}
			svc := newTestService(repo)

			resp, err := svc.Cancel(context.Background(), 10, 100)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, repo.updatedStatus)
			assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		})
	}
}

func TestCancel_ForeignAppointment(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: holdAppointment()}
	svc := newTestService(repo)

	_, err := svc.Cancel(context.Background(), 10, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
	// Статус не менялся
	assert.Zero(t, repo.updatedID)
}

func TestCancel_TerminalStatus(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusRejected, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			a := holdAppointment()
			a.Status = status
			a.HoldExpiresAt = nil
			svc := newTestService(&fakeAppointmentRepo{appointment: a})

			_, err := svc.Cancel(context.Background(), 10, 100)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestNotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}
	svc := newTestService(repo)

	_, err := svc.Confirm(context.Background(), 10)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.Cancel(context.Background(), 10, 100)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.GetByID(context.Background(), 10)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateError(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: holdAppointment(), updateErr: errors.New("db down")}
	svc := newTestService(repo)

	_, err := svc.Confirm(context.Background(), 10)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestListForClient(t *testing.T) {
	repo := &fakeAppointmentRepo{byChat: []*domain.Appointment{holdAppointment()}}
	svc := newTestService(repo)

	resp, err := svc.ListForClient(context.Background(), 100, true)
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(10), resp.Appointments[0].ID)

	_, err = svc.ListForClient(context.Background(), 0, true)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
