package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-RepairService/pkg/types"
)

var (
	// ErrEmptyShiftName shift name is required
	ErrEmptyShiftName = errors.New("shiftName is required")

	// ErrShiftNameTooLong shift name exceeds MaxShiftNameLength
	ErrShiftNameTooLong = errors.New("shiftName is too long")

	// ErrInvalidSlotTimes startTime/endTime are malformed or startTime >= endTime
	ErrInvalidSlotTimes = errors.New("startTime must be before endTime")
)

// Slot is a bookable shift ("waktu"): a named time-of-day window.
// IsAvailable is a cached, slot-wide flag maintained by the booking coordinator;
// the authoritative per-date answer comes from the reservation ledger.
type Slot struct {
	ID          int64
	ShiftName   string
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the slot definition invariants
func (s *Slot) Validate() error {
	name := strings.TrimSpace(s.ShiftName)
	if name == "" {
		return ErrEmptyShiftName
	}
	if len(name) > MaxShiftNameLength {
		return ErrShiftNameTooLong
	}
	if err := s.StartTime.Validate(); err != nil {
		return ErrInvalidSlotTimes
	}
	if err := s.EndTime.Validate(); err != nil {
		return ErrInvalidSlotTimes
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return ErrInvalidSlotTimes
	}
	return nil
}

// Overlaps returns true if the two shift windows intersect.
// Touching boundaries (09:00-12:00 and 12:00-15:00) do not overlap.
func (s *Slot) Overlaps(other *Slot) bool {
	return s.StartTime.IsBefore(other.EndTime) && other.StartTime.IsBefore(s.EndTime)
}

// TimeRange returns "HH:MM-HH:MM" for display
func (s *Slot) TimeRange() string {
	return s.StartTime.String() + "-" + s.EndTime.String()
}
