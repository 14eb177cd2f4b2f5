package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

var (
	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("startDate must not be after endDate")
)

// Request модели

// GetUserReservationsRequest запрос истории бронирований клиента
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// ListReservationsRequest фильтр администратора; даты в формате YYYY-MM-DD
type ListReservationsRequest struct {
	UserID           *int64  `json:"userId,omitempty"`
	SlotID           *int64  `json:"slotId,omitempty"`
	Status           *string `json:"status,omitempty"`
	StartDate        *string `json:"startDate,omitempty"`
	EndDate          *string `json:"endDate,omitempty"`
	IncludeCancelled bool    `json:"includeCancelled,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{
		UserID:           r.UserID,
		SlotID:           r.SlotID,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := domain.ParseReservationStatus(*r.Status)
		if err != nil {
			return filter, fmt.Errorf("status %q: %w", *r.Status, err)
		}
		filter.Status = &status
	}

	if r.StartDate != nil {
		start, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return filter, errors.New("startDate must be YYYY-MM-DD")
		}
		filter.StartDate = &start
	}

	if r.EndDate != nil {
		end, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return filter, errors.New("endDate must be YYYY-MM-DD")
		}
		filter.EndDate = &end
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return filter, ErrInvalidPeriod
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	SlotID        int64  `json:"slotId"`
	ScheduledDate string `json:"scheduledDate"` // "2025-03-01"
	Status        string `json:"status"`

	// Смена
	ShiftName string `json:"shiftName"`
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "12:00"

	// Денормализованные данные заказа
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail,omitempty"`
	DeviceID       int64   `json:"deviceId"`
	DeviceName     string  `json:"deviceName"`
	FaultIDs       []int64 `json:"faultIds"`
	EstimatedPrice float64 `json:"estimatedPrice"`
	Notes          *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	faultIDs := r.FaultIDs
	if faultIDs == nil {
		faultIDs = []int64{}
	}

	return &ReservationResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		SlotID:         r.SlotID,
		ScheduledDate:  r.ScheduledDate.Format(domain.DateFormat),
		Status:         string(r.Status),
		ShiftName:      r.ShiftName,
		StartTime:      r.SlotStartTime,
		EndTime:        r.SlotEndTime,
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		DeviceID:       r.DeviceID,
		DeviceName:     r.DeviceName,
		FaultIDs:       faultIDs,
		EstimatedPrice: r.EstimatedPrice,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}

	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}
