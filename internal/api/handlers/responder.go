package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgInvalidBody   = "некорректное тело запроса"

	// RetryAfterSeconds подсказка клиенту при 503
	RetryAfterSeconds = 1
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictPayload бронирование, которое занимает смену
type ConflictPayload struct {
	ReservationID int64  `json:"reservationId"`
	CustomerName  string `json:"customerName"`
	SlotID        int64  `json:"slotId"`
	ShiftName     string `json:"shiftName"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Date          string `json:"date"`
}

// ConflictResponse тело ответа 409
type ConflictResponse struct {
	Error    string           `json:"error"`
	Conflict *ConflictPayload `json:"conflict,omitempty"`
}

// DecodeJSON читает тело запроса в v, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New(msgInvalidBody)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// RespondNoContent 204 без тела
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError пишет ошибку в формате {"error": "..."}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondConflict 409 с данными занимающего смену бронирования (если известны)
func RespondConflict(w http.ResponseWriter, message string, conflict *domain.Conflict) {
	resp := ConflictResponse{Error: message}
	if conflict != nil {
		resp.Error = message + ": " + conflict.Message()
		resp.Conflict = &ConflictPayload{
			ReservationID: conflict.ReservationID,
			CustomerName:  conflict.CustomerName,
			SlotID:        conflict.SlotID,
			ShiftName:     conflict.ShiftName,
			StartTime:     conflict.StartTime,
			EndTime:       conflict.EndTime,
			Date:          conflict.Date.Format(domain.DateFormat),
		}
	}
	RespondJSON(w, http.StatusConflict, resp)
}

// RespondUnavailable 503, запрос можно повторить
func RespondUnavailable(w http.ResponseWriter, message string) {
	w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	RespondError(w, http.StatusServiceUnavailable, message)
}

// Detail возвращает текст ошибки без префикса sentinel-ошибки:
// "create_reservation: invalid input data: slotId must be positive" -> "slotId must be positive"
func Detail(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}
