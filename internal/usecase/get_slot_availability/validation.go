package get_slot_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

func validateDate(date string) (time.Time, error) {
	parsed, err := domain.ParseScheduledDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}
	return parsed, nil
}
