package list_reservations

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-RepairService/internal/service/reservations/models"
)

// ToServiceRequest собирает фильтр из query параметров
// Даты и статус проверяет сервис
func ToServiceRequest(query url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	if v := query.Get("userId"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.New("userId must be a number")
		}
		req.UserID = &userID
	}

	if v := query.Get("slotId"); v != "" {
		slotID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.New("slotId must be a number")
		}
		req.SlotID = &slotID
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	// date - короткая запись для расписания на один день
	if v := query.Get("date"); v != "" {
		start, end := v, v
		req.StartDate = &start
		req.EndDate = &end
	}
	if v := query.Get("startDate"); v != "" {
		req.StartDate = &v
	}
	if v := query.Get("endDate"); v != "" {
		req.EndDate = &v
	}

	if v := query.Get("includeCancelled"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("includeCancelled must be true or false")
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
