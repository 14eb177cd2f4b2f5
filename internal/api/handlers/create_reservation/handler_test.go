package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairService/internal/domain"
	createReservation "github.com/m04kA/SMC-RepairService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createReservation.Response)
	return resp, args.Error(1)
}

const body = `{"customerName":"Budi","customerEmail":"budi@example.com","slotId":1,"scheduledDate":"2025-03-01","deviceId":1,"faultIds":[1,2]}`

func newRequest(t *testing.T, payload string, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(payload))
	if userID > 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, ""))
	}
	return req
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	now := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createReservation.Request) bool {
		return req.UserID == 42 && req.SlotID == 1 && req.ScheduledDate == "2025-03-01" && len(req.FaultIDs) == 2
	})).Return(&createReservation.Response{
		ID:             10,
		UserID:         42,
		SlotID:         1,
		ScheduledDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:         "PENDING",
		CustomerName:   "Budi",
		DeviceID:       1,
		DeviceName:     "Samsung Galaxy A52",
		FaultIDs:       []int64{1, 2},
		EstimatedPrice: 200000,
		ShiftName:      "Shift A",
		StartTime:      "09:00",
		EndTime:        "12:00",
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(t, body, 42))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "2025-03-01", resp.ScheduledDate)
	assert.Equal(t, "Shift A", resp.ShiftName)
	assert.Equal(t, 200000.0, resp.EstimatedPrice)
	uc.AssertExpectations(t)
}

func TestHandle_Conflict(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &createReservation.ConflictError{
		Conflict: &domain.Conflict{
			ReservationID: 3,
			CustomerName:  "Sari",
			SlotID:        1,
			ShiftName:     "Shift A",
			StartTime:     "09:00",
			EndTime:       "12:00",
			Date:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	})

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(t, body, 42))

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, int64(3), resp.Conflict.ReservationID)
	assert.Equal(t, "Sari", resp.Conflict.CustomerName)
	assert.Equal(t, "2025-03-01", resp.Conflict.Date)
	assert.Contains(t, resp.Error, msgSlotBooked)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation names the field",
			err:        fmt.Errorf("%w: customerEmail is not a valid e-mail", createReservation.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantBody:   "customerEmail is not a valid e-mail",
		},
		{"slot not found", createReservation.ErrSlotNotFound, http.StatusNotFound, msgSlotNotFound},
		{"device not found", createReservation.ErrDeviceNotFound, http.StatusNotFound, msgDeviceNotFound},
		{"race without payload", createReservation.ErrSlotAlreadyBooked, http.StatusConflict, msgSlotBooked},
		{"timeout", createReservation.ErrUnavailable, http.StatusServiceUnavailable, msgTryAgain},
		{"internal", createReservation.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(t, body, 42))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(t, body, 0))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, newRequest(t, `{"slotId":`, 42))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, newRequest(t, `{"unknown":1}`, 42))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
