package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда смена не найдена
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrDuplicateShiftName возвращается при нарушении уникальности названия смены
	ErrDuplicateShiftName = errors.New("slot.repository: duplicate shift name")

	// ErrSlotReferenced возвращается, когда на смену ссылаются бронирования
	ErrSlotReferenced = errors.New("slot.repository: slot is referenced by reservations")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
