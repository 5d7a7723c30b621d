package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		st, en   time.Time
		bs, be   time.Time
		expected bool
	}{
		{
			name: "identical intervals",
			st:   ts(10, 0), en: ts(11, 0),
			bs: ts(10, 0), be: ts(11, 0),
			expected: true,
		},
		{
			name: "partial overlap",
			st:   ts(10, 0), en: ts(11, 0),
			bs: ts(10, 30), be: ts(11, 30),
			expected: true,
		},
		{
			name: "touching boundaries is not an overlap",
			st:   ts(10, 0), en: ts(11, 0),
			bs: ts(11, 0), be: ts(12, 0),
			expected: false,
		},
		{
			name: "touching boundaries reversed",
			st:   ts(11, 0), en: ts(12, 0),
			bs: ts(10, 0), be: ts(11, 0),
			expected: false,
		},
		{
			name: "one contains the other",
			st:   ts(10, 0), en: ts(13, 0),
			bs: ts(11, 0), be: ts(12, 0),
			expected: true,
		},
		{
			name: "disjoint",
			st:   ts(10, 0), en: ts(11, 0),
			bs: ts(14, 0), be: ts(15, 0),
			expected: false,
		},
		{
			name: "one minute overlap",
			st:   ts(10, 0), en: ts(11, 1),
			bs: ts(11, 0), be: ts(12, 0),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.st, tt.en, tt.bs, tt.be))
		})
	}
}

func TestAppointment_OccupiedUntil(t *testing.T) {
	a := &Appointment{
		StartAt:       ts(10, 0),
		EndAt:         ts(11, 0),
		BufferMinutes: 15,
	}
	assert.Equal(t, ts(11, 15), a.OccupiedUntil())

	a.BufferMinutes = 0
	assert.Equal(t, ts(11, 0), a.OccupiedUntil())
}

func TestAppointment_IsActiveAt(t *testing.T) {
	now := ts(12, 0)
	expiry := ts(12, 30)
	pastExpiry := ts(11, 30)

	tests := []struct {
		name     string
		a        Appointment
		expected bool
	}{
		{"booked is always active", Appointment{Status: StatusBooked}, true},
		{"hold before expiry", Appointment{Status: StatusHold, HoldExpiresAt: &expiry}, true},
		{"hold past expiry", Appointment{Status: StatusHold, HoldExpiresAt: &pastExpiry}, false},
		{"rejected", Appointment{Status: StatusRejected}, false},
		{"cancelled", Appointment{Status: StatusCancelled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.IsActiveAt(now))
		})
	}
}

func TestAppointment_HoldExpired(t *testing.T) {
	now := ts(12, 0)
	past := ts(11, 0)
	future := ts(13, 0)

	expired := &Appointment{Status: StatusHold, HoldExpiresAt: &past}
	assert.True(t, expired.HoldExpired(now))

	active := &Appointment{Status: StatusHold, HoldExpiresAt: &future}
	assert.False(t, active.HoldExpired(now))

	// booked запись не может "протухнуть" даже со старым expiry
	booked := &Appointment{Status: StatusBooked, HoldExpiresAt: nil}
	assert.False(t, booked.HoldExpired(now))
}

func TestAppointment_Transitions(t *testing.T) {
	tests := []struct {
		status       AppointmentStatus
		canConfirm   bool
		canReject    bool
		canCancel    bool
		isTerminal   bool
	}{
		{StatusHold, true, true, true, false},
		{StatusBooked, false, false, true, false},
		{StatusRejected, false, false, false, true},
		{StatusCancelled, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := &Appointment{Status: tt.status}
			assert.Equal(t, tt.canConfirm, a.CanBeConfirmed())
			assert.Equal(t, tt.canReject, a.CanBeRejected())
			assert.Equal(t, tt.canCancel, a.CanBeCancelled())
			assert.Equal(t, tt.isTerminal, a.IsTerminal())
		})
	}
}
