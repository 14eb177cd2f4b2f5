package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxShiftNameLength      = 100
	MaxNotesLength          = 500
	MaxCustomerNameLength   = 150
	MaxFaultsPerReservation = 10
)

// InactiveStatuses статусы, не занимающие слот
// Используется для фильтрации при проверке конфликтов
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
}

// ActiveStatuses статусы, которые занимают слот на дату
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusAwaitingPayment,
	StatusInProgress,
	StatusCompleted,
}
