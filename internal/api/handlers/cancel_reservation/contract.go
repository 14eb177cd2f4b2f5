package cancel_reservation

import (
	"context"

	cancelReservation "github.com/m04kA/SMC-RepairService/internal/usecase/cancel_reservation"
	updateReservation "github.com/m04kA/SMC-RepairService/internal/usecase/update_reservation"
)

type CancelReservationUseCase interface {
	Execute(ctx context.Context, req *cancelReservation.Request) (*updateReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
