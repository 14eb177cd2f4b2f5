package get_slot_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/service/scheduling"
	"github.com/m04kA/SMC-RepairService/internal/testfixtures"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

func day(s string) time.Time {
	d, _ := time.Parse(domain.DateFormat, s)
	return d
}

func setup(t *testing.T) (*testfixtures.Store, *UseCase, *domain.Slot, *domain.Slot) {
	t.Helper()

	store := testfixtures.NewStore()
	shiftB := store.AddSlot("Shift B", "13:00", "16:00")
	shiftA := store.AddSlot("Shift A", "09:00", "12:00")

	coordinator := scheduling.NewCoordinator(store.Reservations(), store.Slots(), logger.NewNop())
	uc := NewUseCase(store.Slots(), store.Reservations(), coordinator, store.TxManager(), logger.NewNop())

	return store, uc, shiftA, shiftB
}

func book(t *testing.T, store *testfixtures.Store, slotID int64, date string, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()

	res, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:        7,
		SlotID:        slotID,
		ScheduledDate: day(date),
		Status:        status,
		CustomerName:  "Budi",
	})
	require.NoError(t, err)
	return res
}

func TestExecute_PerDateAnswerIgnoresCachedFlag(t *testing.T) {
	store, uc, shiftA, _ := setup(t)
	held := book(t, store, shiftA.ID, "2025-03-01", domain.StatusPending)
	book(t, store, shiftA.ID, "2025-03-03", domain.StatusCancelled)
	require.NoError(t, store.Slots().SetAvailability(context.Background(), shiftA.ID, false))

	t.Run("booked date", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), &Request{SlotID: shiftA.ID, Date: "2025-03-01"})
		require.NoError(t, err)
		assert.False(t, got.Free)
		require.NotNil(t, got.ReservationID)
		assert.Equal(t, held.ID, *got.ReservationID)
	})

	t.Run("other date is free although the flag says otherwise", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), &Request{SlotID: shiftA.ID, Date: "2025-03-02"})
		require.NoError(t, err)
		assert.True(t, got.Free)
		assert.False(t, got.IsAvailable)
		assert.Nil(t, got.ReservationID)
	})

	t.Run("cancelled reservation does not hold the date", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), &Request{SlotID: shiftA.ID, Date: "2025-03-03"})
		require.NoError(t, err)
		assert.True(t, got.Free)
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{SlotID: 42, Date: "2025-03-01"})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{SlotID: shiftA.ID, Date: "1 March"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecuteForDate(t *testing.T) {
	store, uc, shiftA, shiftB := setup(t)
	held := book(t, store, shiftB.ID, "2025-03-01", domain.StatusInProgress)
	book(t, store, shiftA.ID, "2025-03-02", domain.StatusPending)

	got, err := uc.ExecuteForDate(context.Background(), &DayRequest{Date: "2025-03-01"})
	require.NoError(t, err)
	require.Len(t, got.Slots, 2)

	// Сортировка по времени начала
	assert.Equal(t, shiftA.ID, got.Slots[0].SlotID)
	assert.True(t, got.Slots[0].Free)

	assert.Equal(t, shiftB.ID, got.Slots[1].SlotID)
	assert.False(t, got.Slots[1].Free)
	require.NotNil(t, got.Slots[1].ReservationID)
	assert.Equal(t, held.ID, *got.Slots[1].ReservationID)
	assert.Equal(t, "13:00", got.Slots[1].StartTime)

	_, err = uc.ExecuteForDate(context.Background(), &DayRequest{Date: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
