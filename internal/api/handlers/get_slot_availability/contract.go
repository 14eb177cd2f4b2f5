package get_slot_availability

import (
	"context"

	getSlotAvailability "github.com/m04kA/SMC-RepairService/internal/usecase/get_slot_availability"
)

type SlotAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getSlotAvailability.Request) (*getSlotAvailability.SlotAvailability, error)
	ExecuteForDate(ctx context.Context, req *getSlotAvailability.DayRequest) (*getSlotAvailability.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
