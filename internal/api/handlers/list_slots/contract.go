package list_slots

import (
	"context"

	"github.com/m04kA/SMC-RepairService/internal/service/slots/models"
)

type SlotService interface {
	List(ctx context.Context) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
