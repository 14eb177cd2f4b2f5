package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairService/pkg/psqlbuilder"
)

const (
	pqUniqueViolation = "23505"

	activeSlotDayIndex = "ux_reservations_slot_day_active"
)

// Колонки бронирования вместе с данными смены из JOIN
var reservationColumns = []string{
	"r.id",
	"r.user_id",
	"r.slot_id",
	"r.scheduled_date",
	"r.status",
	"r.customer_name",
	"r.customer_email",
	"r.device_id",
	"r.device_name",
	"COALESCE((SELECT ARRAY_AGG(rf.fault_id ORDER BY rf.fault_id) FROM reservation_faults rf WHERE rf.reservation_id = r.id), '{}')",
	"r.estimated_price",
	"r.notes",
	"s.shift_name",
	"s.start_time",
	"s.end_time",
	"r.created_at",
	"r.updated_at",
}

// Repository репозиторий бронирований (журнал резерваций)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование и привязывает к нему выбранные неисправности
// Должен вызываться внутри транзакции вместе с проверкой конфликта и записью флага смены.
//
// Если параллельная транзакция уже заняла смену на эту дату, частичный уникальный индекс
// ux_reservations_slot_day_active отклонит вставку и вернется ErrSlotAlreadyBooked.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"slot_id",
			"scheduled_date",
			"status",
			"customer_name",
			"customer_email",
			"device_id",
			"device_name",
			"estimated_price",
			"notes",
		).
		Values(
			res.UserID,
			res.SlotID,
			res.ScheduledDate.Format(domain.DateFormat),
			res.Status,
			res.CustomerName,
			res.CustomerEmail,
			res.DeviceID,
			res.DeviceName,
			res.EstimatedPrice,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isActiveSlotDayViolation(err) {
			return nil, ErrSlotAlreadyBooked
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	if len(res.FaultIDs) == 0 {
		return res, nil
	}

	faultsBuilder := psqlbuilder.Insert("reservation_faults").
		Columns("reservation_id", "fault_id")
	for _, faultID := range res.FaultIDs {
		faultsBuilder = faultsBuilder.Values(res.ID, faultID)
	}

	query, args, err = faultsBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build faults insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert faults: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID вместе с данными смены
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectReservations().
		Where(squirrel.Eq{"r.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// FindActiveOnDay ищет неотмененное бронирование смены slotID с датой в [dayStart, dayEnd].
// excludeID исключает само обновляемое бронирование (0 - не исключать).
// Возвращает nil, nil, если смена свободна.
//
// Внутри транзакции найденная строка блокируется (FOR UPDATE OF r), поэтому проверка
// и последующая запись выполняются атомарно относительно других бронирований.
func (r *Repository) FindActiveOnDay(ctx context.Context, slotID int64, dayStart, dayEnd time.Time, excludeID int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := findActiveOnDayQuery(slotID, dayStart, dayEnd, excludeID, dbmetrics.IsInTransaction(ctx))

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOnDay - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOnDay - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// Update сохраняет смену, дату, статус и заметки бронирования
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("slot_id", res.SlotID).
		Set("scheduled_date", res.ScheduledDate.Format(domain.DateFormat)).
		Set("status", res.Status).
		Set("notes", res.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		if isActiveSlotDayViolation(err) {
			return ErrSlotAlreadyBooked
		}
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	res.UpdatedAt = updatedAt.Time

	return nil
}

// Delete физически удаляет бронирование (связи с неисправностями удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListWithFilter получает бронирования с гибкой фильтрацией
// Поддерживает фильтрацию по:
// - Клиенту (UserID) и смене (SlotID) - опционально
// - Периоду (StartDate, EndDate) - опционально
// - Статусу (Status) - опционально
// - Включению отмененных бронирований (IncludeCancelled)
//
// Примеры использования:
//
// 1. Все активные бронирования на дату:
//
//	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
//	filter := domain.ReservationsFilter{StartDate: &date, EndDate: &date}
//
// 2. История клиента включая отмененные:
//
//	filter := domain.ReservationsFilter{UserID: &userID, IncludeCancelled: true}
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := listQuery(filter)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWithFilter - scan row: %w", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

func selectReservations() squirrel.SelectBuilder {
	return psqlbuilder.Select(reservationColumns...).
		From("reservations r").
		Join("slots s ON s.id = r.slot_id")
}

// findActiveOnDayQuery запрос проверки конфликта; lock добавляет блокировку найденной строки
func findActiveOnDayQuery(slotID int64, dayStart, dayEnd time.Time, excludeID int64, lock bool) squirrel.SelectBuilder {
	selectBuilder := selectReservations().
		Where(squirrel.Eq{"r.slot_id": slotID}).
		Where(squirrel.Expr("r.scheduled_date BETWEEN ?::date AND ?::date",
			dayStart.Format(domain.DateFormat), dayEnd.Format(domain.DateFormat))).
		Where(squirrel.NotEq{"r.status": statusStrings(domain.InactiveStatuses)})

	if excludeID != 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"r.id": excludeID})
	}

	selectBuilder = selectBuilder.OrderBy("r.id ASC").Limit(1)

	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF r")
	}

	return selectBuilder
}

func listQuery(filter domain.ReservationsFilter) squirrel.SelectBuilder {
	selectBuilder := selectReservations()

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.user_id": *filter.UserID})
	}
	if filter.SlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.slot_id": *filter.SlotID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("r.scheduled_date >= ?::date", filter.StartDate.Format(domain.DateFormat)))
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("r.scheduled_date <= ?::date", filter.EndDate.Format(domain.DateFormat)))
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": statusStrings(domain.ActiveStatuses)})
	}

	// Для конкретной даты сортируем по времени смены, иначе сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && domain.SameDay(*filter.StartDate, *filter.EndDate) {
		return selectBuilder.OrderBy("s.start_time ASC", "r.id ASC")
	}
	return selectBuilder.OrderBy("r.scheduled_date DESC", "s.start_time DESC", "r.id DESC")
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var faultIDs pq.Int64Array
	var startTime, endTime string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.SlotID,
		&res.ScheduledDate,
		&res.Status,
		&res.CustomerName,
		&res.CustomerEmail,
		&res.DeviceID,
		&res.DeviceName,
		&faultIDs,
		&res.EstimatedPrice,
		&res.Notes,
		&res.ShiftName,
		&startTime,
		&endTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.FaultIDs = []int64(faultIDs)
	res.SlotStartTime = trimSeconds(startTime)
	res.SlotEndTime = trimSeconds(endTime)
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// trimSeconds приводит TIME из PostgreSQL ("09:00:00") к HH:MM
func trimSeconds(t string) string {
	if len(t) > len(domain.TimeFormat) {
		return t[:len(domain.TimeFormat)]
	}
	return t
}

func isActiveSlotDayViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqUniqueViolation && pqErr.Constraint == activeSlotDayIndex
}
