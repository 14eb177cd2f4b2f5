package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	updateReservation "github.com/m04kA/SMC-RepairService/internal/usecase/update_reservation"
)

// UpdateReservationRequest HTTP request model, все поля опциональны
type UpdateReservationRequest struct {
	Status        *string `json:"status,omitempty"`
	SlotID        *int64  `json:"slotId,omitempty"`
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Notify        bool    `json:"notify,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"userId"`
	SlotID         int64   `json:"slotId"`
	ScheduledDate  string  `json:"scheduledDate"`
	Status         string  `json:"status"`
	PreviousStatus string  `json:"previousStatus"`
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
func (r *UpdateReservationRequest) ToUseCaseRequest(id int64) *updateReservation.Request {
	return &updateReservation.Request{
		ID:            id,
		Status:        r.Status,
		SlotID:        r.SlotID,
		ScheduledDate: r.ScheduledDate,
		Notes:         r.Notes,
		Notify:        r.Notify,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Используется также хендлером отмены
func FromUseCaseResponse(resp *updateReservation.Response) *ReservationResponse {
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
		PreviousStatus: resp.PreviousStatus,
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
