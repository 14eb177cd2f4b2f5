package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairService/pkg/psqlbuilder"
)

// Repository справочник устройств и цен на ремонт (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочника
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDevice получает модель устройства по ID
func (r *Repository) GetDevice(ctx context.Context, id int64) (*domain.Device, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "brand", "model").
		From("devices").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDevice - build select query: %v", ErrBuildQuery, err)
	}

	var device domain.Device
	err = executor.QueryRowContext(ctx, query, args...).Scan(&device.ID, &device.Brand, &device.Model)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDevice - scan device: %w", ErrScanRow, err)
	}

	return &device, nil
}

// GetFaultQuotes возвращает цены ремонта для устройства по списку неисправностей
// Неисправности без цены для этого устройства в результат не попадают
func (r *Repository) GetFaultQuotes(ctx context.Context, deviceID int64, faultIDs []int64) ([]*domain.FaultQuote, error) {
	if len(faultIDs) == 0 {
		return []*domain.FaultQuote{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("f.id", "f.name", "fp.device_id", "fp.price").
		From("fault_prices fp").
		Join("faults f ON f.id = fp.fault_id").
		Where(squirrel.Eq{"fp.device_id": deviceID}).
		Where(squirrel.Eq{"fp.fault_id": faultIDs}).
		OrderBy("f.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetFaultQuotes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetFaultQuotes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	quotes := make([]*domain.FaultQuote, 0, len(faultIDs))
	for rows.Next() {
		var q domain.FaultQuote
		if err := rows.Scan(&q.FaultID, &q.FaultName, &q.DeviceID, &q.Price); err != nil {
			return nil, fmt.Errorf("%w: GetFaultQuotes - scan row: %w", ErrScanRow, err)
		}
		quotes = append(quotes, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetFaultQuotes - rows error: %w", ErrScanRow, err)
	}

	return quotes, nil
}
