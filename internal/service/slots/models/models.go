package models

import (
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// Request модели

// CreateSlotRequest запрос на создание смены
type CreateSlotRequest struct {
	ShiftName string `json:"shiftName"`
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "12:00"
}

// UpdateSlotRequest запрос на обновление смены
// Все поля опциональны - обновляются только переданные значения
type UpdateSlotRequest struct {
	ShiftName *string `json:"shiftName,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// Response модели

// SlotResponse ответ с данными смены
type SlotResponse struct {
	ID          int64     `json:"id"`
	ShiftName   string    `json:"shiftName"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком смен
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:          s.ID,
		ShiftName:   s.ShiftName,
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
		IsAvailable: s.IsAvailable,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, s := range slots {
		if item := FromDomainSlot(s); item != nil {
			resp.Slots = append(resp.Slots, *item)
		}
	}

	return resp
}
