package slot

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
)

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

type mockTx struct {
	mockExecutor
}

func (m *mockTx) Commit() error   { return nil }
func (m *mockTx) Rollback() error { return nil }

const selectSlot = "SELECT id, shift_name, start_time, end_time, is_available, created_at, updated_at FROM slots WHERE id = $1"

func TestGetByIDQuery(t *testing.T) {
	tests := []struct {
		name      string
		lock      bool
		wantQuery string
	}{
		{name: "чтение", lock: false, wantQuery: selectSlot},
		{name: "блокировка в транзакции", lock: true, wantQuery: selectSlot + " FOR UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := getByIDQuery(3, tt.lock).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, []interface{}{int64(3)}, args)
		})
	}
}

func TestExistsByShiftNameQuery(t *testing.T) {
	query, args, err := existsByShiftNameQuery("  Morning ", 0).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM slots WHERE LOWER(shift_name) = LOWER($1) LIMIT 1", query)
	assert.Equal(t, []interface{}{"Morning"}, args)

	query, args, err = existsByShiftNameQuery("Morning", 4).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM slots WHERE LOWER(shift_name) = LOWER($1) AND id <> $2 LIMIT 1", query)
	assert.Equal(t, []interface{}{"Morning", int64(4)}, args)
}

func TestSetAvailability(t *testing.T) {
	const update = "UPDATE slots SET is_available = $1, updated_at = NOW() WHERE id = $2"

	tests := []struct {
		name      string
		available bool
		result    sql.Result
		execErr   error
		wantErr   error
	}{
		{name: "занять смену", available: false, result: driver.RowsAffected(1)},
		{name: "освободить смену", available: true, result: driver.RowsAffected(1)},
		{name: "смены нет", available: false, result: driver.RowsAffected(0), wantErr: ErrSlotNotFound},
		{name: "ошибка БД", available: true, execErr: assert.AnError, wantErr: ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(mockExecutor)
			db.On("ExecContext", update, []interface{}{tt.available, int64(3)}).Return(tt.result, tt.execErr).Once()

			err := NewRepository(db).SetAvailability(context.Background(), 3, tt.available)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			db.AssertExpectations(t)
		})
	}
}

func TestSetAvailability_UsesTransactionFromContext(t *testing.T) {
	db := new(mockExecutor)
	tx := new(mockTx)
	tx.On("ExecContext", mock.Anything, []interface{}{false, int64(3)}).Return(driver.RowsAffected(1), nil).Once()

	ctx := dbmetrics.WithTx(context.Background(), tx)
	require.NoError(t, NewRepository(db).SetAvailability(ctx, 3, false))

	tx.AssertExpectations(t)
	db.AssertNotCalled(t, "ExecContext", mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	const del = "DELETE FROM slots WHERE id = $1"

	db := new(mockExecutor)
	repo := NewRepository(db)

	db.On("ExecContext", del, []interface{}{int64(1)}).Return(driver.RowsAffected(1), nil).Once()
	assert.NoError(t, repo.Delete(context.Background(), 1))

	db.On("ExecContext", del, []interface{}{int64(2)}).Return(driver.RowsAffected(0), nil).Once()
	assert.ErrorIs(t, repo.Delete(context.Background(), 2), ErrSlotNotFound)

	db.On("ExecContext", del, []interface{}{int64(3)}).Return(nil, &pq.Error{Code: pqForeignKeyViolation}).Once()
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), ErrSlotReferenced)

	db.AssertExpectations(t)
}

func TestPqCode(t *testing.T) {
	assert.Equal(t, pq.ErrorCode(pqUniqueViolation), pqCode(&pq.Error{Code: pqUniqueViolation}))
	assert.Equal(t, pq.ErrorCode(""), pqCode(assert.AnError))
}
