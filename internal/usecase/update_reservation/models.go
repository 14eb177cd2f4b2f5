package update_reservation

import (
	"time"
)

// Request модель запроса на изменение бронирования (частичное обновление)
type Request struct {
	ID            int64   // ID бронирования
	Status        *string // Новый статус (опционально)
	SlotID        *int64  // Новая смена (опционально)
	ScheduledDate *string // Новая дата (опционально)
	Notes         *string // Новый комментарий (опционально)
	Notify        bool    // Уведомить клиента, если статус изменился
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID             int64
	UserID         int64
	SlotID         int64
	ScheduledDate  time.Time
	Status         string
	PreviousStatus string
	CustomerName   string
	CustomerEmail  string
	DeviceID       int64
	DeviceName     string
	FaultIDs       []int64
	EstimatedPrice float64
	Notes          *string

	ShiftName string
	StartTime string
	EndTime   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
