package delete_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/service/scheduling"
	"github.com/m04kA/SMC-RepairService/internal/testfixtures"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

func setup(t *testing.T, status domain.ReservationStatus) (*testfixtures.Store, *UseCase, *domain.Reservation) {
	t.Helper()

	store := testfixtures.NewStore()
	shiftA := store.AddSlot("Shift A", "09:00", "12:00")

	date, _ := time.Parse(domain.DateFormat, "2025-03-01")
	res, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:        7,
		SlotID:        shiftA.ID,
		ScheduledDate: date,
		Status:        status,
		CustomerName:  "Budi",
	})
	require.NoError(t, err)
	require.NoError(t, store.Slots().SetAvailability(context.Background(), shiftA.ID, false))

	coordinator := scheduling.NewCoordinator(store.Reservations(), store.Slots(), logger.NewNop())
	uc := NewUseCase(store.Reservations(), coordinator, store.TxManager(), nil, logger.NewNop())

	return store, uc, res
}

func TestExecute_DeletesAndReleasesSlot(t *testing.T) {
	store, uc, res := setup(t, domain.StatusPending)

	require.NoError(t, uc.Execute(context.Background(), res.ID))

	assert.Zero(t, store.ReservationCount())
	assert.True(t, store.SlotAvailable(res.SlotID))

	err := uc.Execute(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_InProgressGuard(t *testing.T) {
	store, uc, res := setup(t, domain.StatusInProgress)

	err := uc.Execute(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrReservationInProgress)

	assert.Equal(t, 1, store.ReservationCount())
	assert.False(t, store.SlotAvailable(res.SlotID))
}

func TestExecute_FlagWriteFailureKeepsRow(t *testing.T) {
	store, uc, res := setup(t, domain.StatusCompleted)
	store.FailSetAvailability = errors.New("connection reset")

	err := uc.Execute(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, store.ReservationCount())
}

func TestExecute_InvalidID(t *testing.T) {
	_, uc, _ := setup(t, domain.StatusPending)
	assert.ErrorIs(t, uc.Execute(context.Background(), 0), ErrInvalidInput)
}

func TestExecute_CancelledKeepsRebookedSlotTaken(t *testing.T) {
	store, uc, cancelled := setup(t, domain.StatusCancelled)

	// смену на ту же дату уже занял другой клиент
	_, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:        8,
		SlotID:        cancelled.SlotID,
		ScheduledDate: cancelled.ScheduledDate,
		Status:        domain.StatusPending,
		CustomerName:  "Sari",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Execute(context.Background(), cancelled.ID))

	assert.Equal(t, 1, store.ReservationCount())
	assert.Equal(t, 1, store.ActiveCount(cancelled.SlotID, cancelled.ScheduledDate))
	assert.False(t, store.SlotAvailable(cancelled.SlotID))
}
