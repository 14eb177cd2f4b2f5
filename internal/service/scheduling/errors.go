package scheduling

import "errors"

var (
	// ErrSlotNotFound возвращается, когда смена не найдена
	ErrSlotNotFound = errors.New("scheduling: slot not found")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("scheduling: internal error")
)
