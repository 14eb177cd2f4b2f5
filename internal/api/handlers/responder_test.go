package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

func TestRespondConflict(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "slot already booked", &domain.Conflict{
		ReservationID: 3,
		CustomerName:  "Sari",
		SlotID:        1,
		ShiftName:     "Shift A",
		StartTime:     "09:00",
		EndTime:       "12:00",
		Date:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, int64(3), resp.Conflict.ReservationID)
	assert.Equal(t, "2025-03-01", resp.Conflict.Date)
	assert.True(t, strings.HasPrefix(resp.Error, "slot already booked"))
}

func TestRespondConflict_WithoutPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "slot already booked", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "conflict\":")
}

func TestRespondUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondUnavailable(rec, "try again")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestDetail(t *testing.T) {
	sentinel := errors.New("create_reservation: invalid input data")
	err := fmt.Errorf("%w: slotId must be positive", sentinel)

	assert.Equal(t, "slotId must be positive", Detail(err, sentinel))
	assert.Equal(t, "other", Detail(errors.New("other"), sentinel))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		SlotID int64 `json:"slotId"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId":2}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, int64(2), v.SlotID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId":2,"extra":true}`))
	assert.Error(t, DecodeJSON(req, &v))
}
