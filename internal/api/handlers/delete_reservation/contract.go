package delete_reservation

import "context"

type DeleteReservationUseCase interface {
	Execute(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
