package domain

import (
	"errors"
	"strings"
	"time"
)

// Reservation is the scheduling facet of a repair order:
// a claim on one Slot for one calendar date with a lifecycle status.
type Reservation struct {
	ID            int64
	UserID        int64
	SlotID        int64
	ScheduledDate time.Time // calendar date, time-of-day ignored
	Status        ReservationStatus

	// Denormalized data for display and notifications
	CustomerName   string
	CustomerEmail  string
	DeviceID       int64
	DeviceName     string
	FaultIDs       []int64
	EstimatedPrice float64
	Notes          *string

	// Filled by joins, not stored on the reservation row
	ShiftName     string
	SlotStartTime string
	SlotEndTime   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation occupies its slot on its date
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeDeleted returns false for in-flight repairs
func (r *Reservation) CanBeDeleted() bool {
	return r.Status != StatusInProgress
}

// CanBeRescheduled returns true if slot or date may still be changed
func (r *Reservation) CanBeRescheduled() bool {
	return !r.Status.IsTerminal()
}

// CanBeCancelledByCustomer returns true if the customer may cancel on their own
func (r *Reservation) CanBeCancelledByCustomer() bool {
	return r.Status == StatusPending || r.Status == StatusAwaitingPayment
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	UserID           *int64             // Бронирования конкретного клиента (опционально)
	SlotID           *int64             // Фильтр по смене (опционально)
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	StartDate        *time.Time         // Начало периода включительно (опционально)
	EndDate          *time.Time         // Конец периода включительно (опционально)
	IncludeCancelled bool               // Включать ли отмененные
}

// CalendarDate drops the time-of-day component, keeping the date as written
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayBounds returns [00:00:00.000, 23:59:59.999] of the calendar date of t.
// No timezone conversion is performed.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := CalendarDate(t)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// SameDay reports whether two instants fall on the same calendar date
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ErrInvalidDate is returned when a scheduled date cannot be parsed
var ErrInvalidDate = errors.New("scheduledDate must be YYYY-MM-DD or RFC3339")

// ParseScheduledDate accepts "2025-03-01" or a full RFC3339 timestamp.
// The time-of-day part is dropped; the calendar date is taken as written,
// without converting the offset.
func ParseScheduledDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if d, err := time.Parse(DateFormat, s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
