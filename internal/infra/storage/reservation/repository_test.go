package reservation

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

func TestIsActiveSlotDayViolation(t *testing.T) {
	violation := &pq.Error{Code: pqUniqueViolation, Constraint: activeSlotDayIndex}

	assert.True(t, isActiveSlotDayViolation(violation))
	assert.True(t, isActiveSlotDayViolation(fmt.Errorf("insert: %w", violation)))
	assert.False(t, isActiveSlotDayViolation(&pq.Error{Code: pqUniqueViolation, Constraint: "reservation_faults_pkey"}))
	assert.False(t, isActiveSlotDayViolation(&pq.Error{Code: "40001"}))
	assert.False(t, isActiveSlotDayViolation(assert.AnError))
}

func TestTrimSeconds(t *testing.T) {
	assert.Equal(t, "09:00", trimSeconds("09:00:00"))
	assert.Equal(t, "12:30", trimSeconds("12:30"))
}

func TestSelectReservations_FindActiveOnDayShape(t *testing.T) {
	query, _, err := selectReservations().ToSql()
	assert.NoError(t, err)
	assert.Contains(t, query, "FROM reservations r JOIN slots s ON s.id = r.slot_id")
}

func whereClause(t *testing.T, query string) string {
	t.Helper()
	idx := strings.Index(query, " WHERE ")
	require.NotEqual(t, -1, idx, query)
	return query[idx+len(" WHERE "):]
}

func TestFindActiveOnDayQuery(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		excludeID int64
		lock      bool
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "новое бронирование вне транзакции",
			wantWhere: "r.slot_id = $1 AND r.scheduled_date BETWEEN $2::date AND $3::date AND r.status NOT IN ($4) ORDER BY r.id ASC LIMIT 1",
			wantArgs:  []interface{}{int64(3), "2025-03-01", "2025-03-01", "CANCELLED"},
		},
		{
			name:      "новое бронирование в транзакции",
			lock:      true,
			wantWhere: "r.slot_id = $1 AND r.scheduled_date BETWEEN $2::date AND $3::date AND r.status NOT IN ($4) ORDER BY r.id ASC LIMIT 1 FOR UPDATE OF r",
			wantArgs:  []interface{}{int64(3), "2025-03-01", "2025-03-01", "CANCELLED"},
		},
		{
			name:      "перенос исключает само бронирование",
			excludeID: 9,
			wantWhere: "r.slot_id = $1 AND r.scheduled_date BETWEEN $2::date AND $3::date AND r.status NOT IN ($4) AND r.id <> $5 ORDER BY r.id ASC LIMIT 1",
			wantArgs:  []interface{}{int64(3), "2025-03-01", "2025-03-01", "CANCELLED", int64(9)},
		},
		{
			name:      "перенос в транзакции",
			excludeID: 9,
			lock:      true,
			wantWhere: "r.slot_id = $1 AND r.scheduled_date BETWEEN $2::date AND $3::date AND r.status NOT IN ($4) AND r.id <> $5 ORDER BY r.id ASC LIMIT 1 FOR UPDATE OF r",
			wantArgs:  []interface{}{int64(3), "2025-03-01", "2025-03-01", "CANCELLED", int64(9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := findActiveOnDayQuery(3, day, day, tt.excludeID, tt.lock).ToSql()
			require.NoError(t, err)

			assert.Contains(t, query, "FROM reservations r JOIN slots s ON s.id = r.slot_id")
			assert.Equal(t, tt.wantWhere, whereClause(t, query))
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestListQuery(t *testing.T) {
	userID := int64(4)
	slotID := int64(2)
	completed := domain.StatusCompleted
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	activeArgs := []interface{}{"PENDING", "MENUNGGU_PEMBAYARAN", "IN_PROGRESS", "COMPLETED"}

	tests := []struct {
		name      string
		filter    domain.ReservationsFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "по умолчанию только активные",
			filter:    domain.ReservationsFilter{},
			wantWhere: "r.status IN ($1,$2,$3,$4) ORDER BY r.scheduled_date DESC, s.start_time DESC, r.id DESC",
			wantArgs:  activeArgs,
		},
		{
			name:      "включая отмененные",
			filter:    domain.ReservationsFilter{UserID: &userID, IncludeCancelled: true},
			wantWhere: "r.user_id = $1 ORDER BY r.scheduled_date DESC, s.start_time DESC, r.id DESC",
			wantArgs:  []interface{}{int64(4)},
		},
		{
			name:      "статус важнее IncludeCancelled",
			filter:    domain.ReservationsFilter{SlotID: &slotID, Status: &completed},
			wantWhere: "r.slot_id = $1 AND r.status = $2 ORDER BY r.scheduled_date DESC, s.start_time DESC, r.id DESC",
			wantArgs:  []interface{}{int64(2), domain.StatusCompleted},
		},
		{
			name:      "период",
			filter:    domain.ReservationsFilter{StartDate: &start, EndDate: &end, IncludeCancelled: true},
			wantWhere: "r.scheduled_date >= $1::date AND r.scheduled_date <= $2::date ORDER BY r.scheduled_date DESC, s.start_time DESC, r.id DESC",
			wantArgs:  []interface{}{"2025-03-01", "2025-03-31"},
		},
		{
			name:      "один день сортируется по времени смены",
			filter:    domain.ReservationsFilter{StartDate: &start, EndDate: &start},
			wantWhere: "r.scheduled_date >= $1::date AND r.scheduled_date <= $2::date AND r.status IN ($3,$4,$5,$6) ORDER BY s.start_time ASC, r.id ASC",
			wantArgs:  append([]interface{}{"2025-03-01", "2025-03-01"}, activeArgs...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := listQuery(tt.filter).ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.wantWhere, whereClause(t, query))
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	called := m.Called(query, args)
	result, _ := called.Get(0).(sql.Result)
	return result, called.Error(1)
}

func (m *mockExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	called := m.Called(query, args)
	rows, _ := called.Get(0).(*sql.Rows)
	return rows, called.Error(1)
}

func (m *mockExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	called := m.Called(query, args)
	row, _ := called.Get(0).(*sql.Row)
	return row
}

func TestDelete(t *testing.T) {
	db := new(mockExecutor)
	repo := NewRepository(db)

	db.On("ExecContext", "DELETE FROM reservations WHERE id = $1", []interface{}{int64(5)}).
		Return(driver.RowsAffected(1), nil).Once()
	require.NoError(t, repo.Delete(context.Background(), 5))

	db.On("ExecContext", "DELETE FROM reservations WHERE id = $1", []interface{}{int64(6)}).
		Return(driver.RowsAffected(0), nil).Once()
	assert.ErrorIs(t, repo.Delete(context.Background(), 6), ErrReservationNotFound)

	db.On("ExecContext", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
	assert.ErrorIs(t, repo.Delete(context.Background(), 7), ErrExecQuery)

	db.AssertExpectations(t)
}
