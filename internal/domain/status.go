package domain

import "errors"

// ErrUnknownStatus is returned for a status string outside the enum
var ErrUnknownStatus = errors.New("unknown reservation status")

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending         ReservationStatus = "PENDING"
	StatusAwaitingPayment ReservationStatus = "MENUNGGU_PEMBAYARAN"
	StatusInProgress      ReservationStatus = "IN_PROGRESS"
	StatusCompleted       ReservationStatus = "COMPLETED"
	StatusCancelled       ReservationStatus = "CANCELLED"
)

// transitions allowed moves between distinct statuses.
// COMPLETED and CANCELLED are terminal.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:         {StatusAwaitingPayment, StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress:      {StatusAwaitingPayment, StatusCompleted, StatusCancelled},
	StatusAwaitingPayment: {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusCompleted:       {},
	StatusCancelled:       {},
}

// ParseReservationStatus converts a string into a known status
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// IsValid reports whether the status is part of the enum
func (s ReservationStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible
func (s ReservationStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// IsActive reports whether a reservation in this status occupies its slot
func (s ReservationStatus) IsActive() bool {
	return s.IsValid() && s != StatusCancelled
}

// CanTransition reports whether a reservation may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to ReservationStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidInitialStatus reports whether a new reservation may start in this status
func IsValidInitialStatus(s ReservationStatus) bool {
	return s == StatusPending || s == StatusAwaitingPayment || s == StatusInProgress
}
