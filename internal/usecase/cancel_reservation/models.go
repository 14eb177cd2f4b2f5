package cancel_reservation

// Request модель запроса на отмену бронирования клиентом
type Request struct {
	ID     int64 // ID бронирования
	UserID int64 // ID клиента (из заголовка X-User-ID)
}
