package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	createReservation "github.com/m04kA/SMC-RepairService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	SlotID        int64   `json:"slotId"`
	ScheduledDate string  `json:"scheduledDate"` // "2025-03-01" или RFC3339
	DeviceID      int64   `json:"deviceId"`
	FaultIDs      []int64 `json:"faultIds"`
	Notes         *string `json:"notes,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"userId"`
	SlotID         int64   `json:"slotId"`
	ScheduledDate  string  `json:"scheduledDate"`
	Status         string  `json:"status"`
	ShiftName      string  `json:"shiftName"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail,omitempty"`
	DeviceID       int64   `json:"deviceId"`
	DeviceName     string  `json:"deviceName"`
	FaultIDs       []int64 `json:"faultIds"`
	EstimatedPrice float64 `json:"estimatedPrice"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Дата и статус разбираются в use case, чтобы ошибка называла поле
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) *createReservation.Request {
	return &createReservation.Request{
		UserID:        userID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		SlotID:        r.SlotID,
		ScheduledDate: r.ScheduledDate,
		DeviceID:      r.DeviceID,
		FaultIDs:      r.FaultIDs,
		Notes:         r.Notes,
		Status:        r.Status,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	faultIDs := resp.FaultIDs
	if faultIDs == nil {
		faultIDs = []int64{}
	}

	return &ReservationResponse{
		ID:             resp.ID,
		UserID:         resp.UserID,
		SlotID:         resp.SlotID,
		ScheduledDate:  resp.ScheduledDate.Format(domain.DateFormat),
		Status:         resp.Status,
		ShiftName:      resp.ShiftName,
		StartTime:      resp.StartTime,
		EndTime:        resp.EndTime,
		CustomerName:   resp.CustomerName,
		CustomerEmail:  resp.CustomerEmail,
		DeviceID:       resp.DeviceID,
		DeviceName:     resp.DeviceName,
		FaultIDs:       faultIDs,
		EstimatedPrice: resp.EstimatedPrice,
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
