package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/service/slots/models"
	"github.com/m04kA/SMC-RepairService/internal/testfixtures"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
	"github.com/m04kA/SMC-RepairService/pkg/ptr"
)

func newService() (*testfixtures.Store, *Service) {
	store := testfixtures.NewStore()
	return store, NewService(store.Slots(), store.TxManager(), logger.NewNop())
}

func TestService_Create(t *testing.T) {
	_, svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.CreateSlotRequest{ShiftName: " Shift A ", StartTime: "09:00", EndTime: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, "Shift A", created.ShiftName)
	assert.True(t, created.IsAvailable)

	tests := []struct {
		name    string
		req     models.CreateSlotRequest
		wantErr error
	}{
		{name: "duplicate name in other case", req: models.CreateSlotRequest{ShiftName: "shift a", StartTime: "13:00", EndTime: "14:00"}, wantErr: ErrDuplicateShiftName},
		{name: "overlapping time", req: models.CreateSlotRequest{ShiftName: "Shift B", StartTime: "11:00", EndTime: "13:00"}, wantErr: ErrSlotOverlap},
		{name: "start after end", req: models.CreateSlotRequest{ShiftName: "Shift B", StartTime: "15:00", EndTime: "13:00"}, wantErr: ErrInvalidInput},
		{name: "bad time format", req: models.CreateSlotRequest{ShiftName: "Shift B", StartTime: "9am", EndTime: "13:00"}, wantErr: ErrInvalidInput},
		{name: "empty name", req: models.CreateSlotRequest{ShiftName: "  ", StartTime: "13:00", EndTime: "14:00"}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Смены, касающиеся границами, не пересекаются
	_, err = svc.Create(ctx, &models.CreateSlotRequest{ShiftName: "Shift B", StartTime: "12:00", EndTime: "15:00"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Slots, 2)
	assert.Equal(t, "Shift A", list.Slots[0].ShiftName)
}

func TestService_UpdateKeepsAvailabilityFlag(t *testing.T) {
	store, svc := newService()
	ctx := context.Background()
	shiftA := store.AddSlot("Shift A", "09:00", "12:00")
	store.AddSlot("Shift B", "13:00", "16:00")
	require.NoError(t, store.Slots().SetAvailability(ctx, shiftA.ID, false))

	updated, err := svc.Update(ctx, shiftA.ID, &models.UpdateSlotRequest{
		ShiftName: ptr.Ptr("Morning"),
		EndTime:   ptr.Ptr("12:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Morning", updated.ShiftName)
	assert.Equal(t, "09:00", updated.StartTime)
	assert.Equal(t, "12:30", updated.EndTime)
	assert.False(t, updated.IsAvailable)

	// Само себя не пересекает, а соседнюю смену - да
	_, err = svc.Update(ctx, shiftA.ID, &models.UpdateSlotRequest{StartTime: ptr.Ptr("08:00")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, shiftA.ID, &models.UpdateSlotRequest{EndTime: ptr.Ptr("14:00")})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	_, err = svc.Update(ctx, shiftA.ID, &models.UpdateSlotRequest{ShiftName: ptr.Ptr("SHIFT B")})
	assert.ErrorIs(t, err, ErrDuplicateShiftName)

	_, err = svc.Update(ctx, 99, &models.UpdateSlotRequest{ShiftName: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_Delete(t *testing.T) {
	store, svc := newService()
	ctx := context.Background()
	shiftA := store.AddSlot("Shift A", "09:00", "12:00")
	shiftB := store.AddSlot("Shift B", "13:00", "16:00")

	date, _ := time.Parse(domain.DateFormat, "2025-03-01")
	_, err := store.Reservations().Create(ctx, &domain.Reservation{
		UserID:        7,
		SlotID:        shiftA.ID,
		ScheduledDate: date,
		Status:        domain.StatusCancelled,
	})
	require.NoError(t, err)

	// Отмененная бронь тоже держит смену
	err = svc.Delete(ctx, shiftA.ID)
	assert.ErrorIs(t, err, ErrSlotInUse)

	require.NoError(t, svc.Delete(ctx, shiftB.ID))
	_, err = svc.GetByID(ctx, shiftB.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, shiftB.ID), ErrSlotNotFound)
}
