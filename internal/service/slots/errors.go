package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда смена не найдена
	ErrSlotNotFound = errors.New("slot not found")

	// ErrDuplicateShiftName возвращается, когда смена с таким названием уже есть
	ErrDuplicateShiftName = errors.New("shift name already exists")

	// ErrSlotOverlap возвращается, когда время смены пересекается с другой сменой
	ErrSlotOverlap = errors.New("slot time range overlaps another slot")

	// ErrSlotInUse возвращается при удалении смены, на которую ссылаются бронирования
	ErrSlotInUse = errors.New("slot is referenced by reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
