package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

var validate = validator.New()

// validateRequest валидирует входные данные запроса и возвращает разобранные дату и статус
func validateRequest(req *Request) (time.Time, domain.ReservationStatus, error) {
	if req.UserID <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}

	if req.DeviceID <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: deviceId must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return time.Time{}, "", fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return time.Time{}, "", fmt.Errorf("%w: customerName is too long (max %d)", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	// Email необязателен, но если указан - должен быть корректным
	if req.CustomerEmail != "" {
		if err := validate.Var(req.CustomerEmail, "email"); err != nil {
			return time.Time{}, "", fmt.Errorf("%w: customerEmail is not a valid email", ErrInvalidInput)
		}
	}

	date, err := domain.ParseScheduledDate(req.ScheduledDate)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateFaultIDs(req.FaultIDs); err != nil {
		return time.Time{}, "", err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return time.Time{}, "", fmt.Errorf("%w: notes is too long (max %d)", ErrInvalidInput, domain.MaxNotesLength)
	}

	status := domain.StatusPending
	if req.Status != nil {
		status, err = domain.ParseReservationStatus(*req.Status)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("%w: status %q is not a known status", ErrInvalidInput, *req.Status)
		}
		if !domain.IsValidInitialStatus(status) {
			return time.Time{}, "", fmt.Errorf("%w: status %s is not allowed for a new reservation", ErrInvalidInput, status)
		}
	}

	return date, status, nil
}

// validateFaultIDs проверяет список неисправностей: не пустой, без повторов
func validateFaultIDs(faultIDs []int64) error {
	if len(faultIDs) == 0 {
		return fmt.Errorf("%w: faultIds must contain at least one fault", ErrInvalidInput)
	}
	if len(faultIDs) > domain.MaxFaultsPerReservation {
		return fmt.Errorf("%w: faultIds must contain at most %d faults", ErrInvalidInput, domain.MaxFaultsPerReservation)
	}

	seen := make(map[int64]struct{}, len(faultIDs))
	for _, id := range faultIDs {
		if id <= 0 {
			return fmt.Errorf("%w: faultIds must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: faultIds contains duplicate %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateQuotes проверяет, что каждая неисправность имеет цену для выбранного устройства
func validateQuotes(faultIDs []int64, quotes []*domain.FaultQuote) error {
	priced := make(map[int64]struct{}, len(quotes))
	for _, q := range quotes {
		priced[q.FaultID] = struct{}{}
	}

	for _, id := range faultIDs {
		if _, ok := priced[id]; !ok {
			return fmt.Errorf("%w: faultIds: fault %d is not repairable for this device", ErrInvalidInput, id)
		}
	}

	return nil
}
