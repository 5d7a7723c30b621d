package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/internal/usecase/run_maintenance"
)

type fakeMaintenance struct {
	result *run_maintenance.Result
	err    error
	calls  int
}

func (f *fakeMaintenance) Execute(_ context.Context) (*run_maintenance.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeSender struct {
	sent    []domain.Notification
	failFor domain.NotificationKind
}

func (f *fakeSender) SendNotification(n domain.Notification) error {
	if n.Kind == f.failFor {
		return errors.New("telegram unavailable")
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeMetrics struct {
	ticks, tickErrors, expired, notifyErrors int
	reminders                                map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{reminders: make(map[string]int)}
}

func (m *fakeMetrics) IncMaintenanceTick()         { m.ticks++ }
func (m *fakeMetrics) IncMaintenanceTickError()    { m.tickErrors++ }
func (m *fakeMetrics) IncHoldExpired()             { m.expired++ }
func (m *fakeMetrics) IncReminderSent(kind string) { m.reminders[kind]++ }
func (m *fakeMetrics) IncNotificationError()       { m.notifyErrors++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestTick_DispatchesNotifications(t *testing.T) {
	maintenance := &fakeMaintenance{result: &run_maintenance.Result{
		ExpiredHolds: 1,
		Reminders24h: 1,
		Notifications: []domain.Notification{
			{ChatID: 100, Kind: domain.NotificationHoldExpired, AppointmentID: 1},
			{ChatID: 200, Kind: domain.NotificationReminder24h, AppointmentID: 2},
		},
	}}
	sender := &fakeSender{}
	metrics := newFakeMetrics()

	s := New(maintenance, sender, metrics, nopLogger{}, time.Minute)
	s.tick(context.Background())

	assert.Equal(t, 1, metrics.ticks)
	assert.Equal(t, 1, metrics.expired)
	assert.Equal(t, 1, metrics.reminders[string(domain.NotificationReminder24h)])
	assert.Len(t, sender.sent, 2)
}

func TestTick_SendFailureDoesNotStopDispatch(t *testing.T) {
	maintenance := &fakeMaintenance{result: &run_maintenance.Result{
		Notifications: []domain.Notification{
			{ChatID: 100, Kind: domain.NotificationHoldExpired},
			{ChatID: 200, Kind: domain.NotificationReminder2h},
		},
	}}
	sender := &fakeSender{failFor: domain.NotificationHoldExpired}
	metrics := newFakeMetrics()

	s := New(maintenance, sender, metrics, nopLogger{}, time.Minute)
	s.tick(context.Background())

	// Сбой первой отправки не мешает второй
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, domain.NotificationReminder2h, sender.sent[0].Kind)
	assert.Equal(t, 1, metrics.notifyErrors)
}

func TestTick_MaintenanceErrorCounted(t *testing.T) {
	maintenance := &fakeMaintenance{err: errors.New("db down")}
	metrics := newFakeMetrics()

	s := New(maintenance, &fakeSender{}, metrics, nopLogger{}, time.Minute)
	s.tick(context.Background())

	assert.Equal(t, 1, metrics.ticks)
	assert.Equal(t, 1, metrics.tickErrors)
}

func TestRun_FirstTickImmediate(t *testing.T) {
	maintenance := &fakeMaintenance{result: &run_maintenance.Result{}}

	s := New(maintenance, &fakeSender{}, newFakeMetrics(), nopLogger{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Первый проход выполняется до первого тика интервала
	assert.Eventually(t, func() bool { return maintenance.calls >= 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
