package create_reservation

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64   // ID клиента (из заголовка X-User-ID)
	CustomerName  string  // Имя клиента для уведомлений
	CustomerEmail string  // Email для уведомлений о смене статуса
	SlotID        int64   // ID смены
	ScheduledDate string  // Дата визита, "2025-03-01" или RFC3339 (время игнорируется)
	DeviceID      int64   // Модель устройства
	FaultIDs      []int64 // Выбранные неисправности
	Notes         *string // Комментарий клиента (опционально)
	Status        *string // Начальный статус (опционально, по умолчанию PENDING)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64
	UserID         int64
	SlotID         int64
	ScheduledDate  time.Time
	Status         string
	CustomerName   string
	CustomerEmail  string
	DeviceID       int64
	DeviceName     string
	FaultIDs       []int64
	EstimatedPrice float64
	Notes          *string

	// Данные смены для отображения
	ShiftName string
	StartTime string
	EndTime   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
