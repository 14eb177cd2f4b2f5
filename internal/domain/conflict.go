package domain

import (
	"fmt"
	"time"
)

// Conflict describes the active reservation that blocks a slot on a date,
// with enough detail for the caller to render a specific message.
type Conflict struct {
	ReservationID int64
	CustomerName  string
	SlotID        int64
	ShiftName     string
	StartTime     string
	EndTime       string
	Date          time.Time
}

// NewConflict builds the conflict payload from the blocking reservation
// (ShiftName/SlotStartTime/SlotEndTime must be joined in)
func NewConflict(blocking *Reservation) *Conflict {
	return &Conflict{
		ReservationID: blocking.ID,
		CustomerName:  blocking.CustomerName,
		SlotID:        blocking.SlotID,
		ShiftName:     blocking.ShiftName,
		StartTime:     blocking.SlotStartTime,
		EndTime:       blocking.SlotEndTime,
		Date:          blocking.ScheduledDate,
	}
}

// Message renders a human-readable explanation
func (c *Conflict) Message() string {
	if c.CustomerName == "" {
		return fmt.Sprintf("Shift %s (%s-%s) is already booked for %s",
			c.ShiftName, c.StartTime, c.EndTime, c.Date.Format(DateFormat))
	}
	return fmt.Sprintf("Shift %s (%s-%s) is already booked for %s by %s",
		c.ShiftName, c.StartTime, c.EndTime, c.Date.Format(DateFormat), c.CustomerName)
}
