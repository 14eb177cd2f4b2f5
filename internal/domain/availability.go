package domain

// FlagChange is a write to a slot's cached availability flag
type FlagChange struct {
	SlotID    int64
	Available bool
}

// ReservationState is the part of a reservation that drives the slot flag
type ReservationState struct {
	SlotID int64
	Status ReservationStatus
}

// ReconcileFlags returns the slot flag writes implied by moving a reservation
// from one state to another:
//   - into CANCELLED from an active status: the original slot is released;
//   - slot changed while staying active: the old slot is released, the new one claimed;
//   - anything else (status moves among active statuses, date-only changes): no writes.
//
// The flag is slot-scoped, so a release does not look at other dates.
func ReconcileFlags(before, after ReservationState) []FlagChange {
	wasActive := before.Status.IsActive()
	isActive := after.Status.IsActive()

	switch {
	case wasActive && !isActive:
		return []FlagChange{{SlotID: before.SlotID, Available: true}}

	case wasActive && isActive && before.SlotID != after.SlotID:
		return []FlagChange{
			{SlotID: before.SlotID, Available: true},
			{SlotID: after.SlotID, Available: false},
		}

	default:
		return nil
	}
}

// ClaimFlag is the flag write for a newly created active reservation
func ClaimFlag(slotID int64) FlagChange {
	return FlagChange{SlotID: slotID, Available: false}
}

// ReleaseFlag is the flag write for a deleted reservation
func ReleaseFlag(slotID int64) FlagChange {
	return FlagChange{SlotID: slotID, Available: true}
}
