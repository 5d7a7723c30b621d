package domain

import "time"

// BlockedInterval represents operator-imposed unavailability (time off,
// breaks). Stored in UTC, interpreted as a half-open interval [StartAt, EndAt).
type BlockedInterval struct {
	ID        int64
	StartAt   time.Time
	EndAt     time.Time
	Reason    *string
	CreatedAt time.Time
}

// Overlaps reports whether the half-open window [st, en) intersects the interval
func (b *BlockedInterval) Overlaps(st, en time.Time) bool {
	return Overlaps(st, en, b.StartAt, b.EndAt)
}
