package update_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/domain"
	updateReservation "github.com/m04kA/SMC-RepairService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *updateReservation.Request) (*updateReservation.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*updateReservation.Response)
	return resp, args.Error(1)
}

func serve(h *Handler, id, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/reservations/"+id, strings.NewReader(payload))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Updated(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateReservation.Request) bool {
		return req.ID == 5 && req.Status != nil && *req.Status == "IN_PROGRESS" && req.Notify
	})).Return(&updateReservation.Response{
		ID:             5,
		SlotID:         1,
		ScheduledDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:         "IN_PROGRESS",
		PreviousStatus: "PENDING",
	}, nil)

	rec := serve(NewHandler(uc, logger.NewNop()), "5", `{"status":"IN_PROGRESS","notify":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "IN_PROGRESS", resp.Status)
	assert.Equal(t, "PENDING", resp.PreviousStatus)
	assert.Equal(t, []int64{}, resp.FaultIDs)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty patch", fmt.Errorf("%w: nothing to update", updateReservation.ErrInvalidInput), http.StatusBadRequest},
		{"transition", fmt.Errorf("%w: COMPLETED -> PENDING", updateReservation.ErrInvalidTransition), http.StatusBadRequest},
		{"terminal move", updateReservation.ErrNotReschedulable, http.StatusBadRequest},
		{"not found", updateReservation.ErrReservationNotFound, http.StatusNotFound},
		{"slot not found", updateReservation.ErrSlotNotFound, http.StatusNotFound},
		{"conflict", &updateReservation.ConflictError{Conflict: &domain.Conflict{ReservationID: 9}}, http.StatusConflict},
		{"unavailable", updateReservation.ErrUnavailable, http.StatusServiceUnavailable},
		{"internal", updateReservation.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(NewHandler(uc, logger.NewNop()), "5", `{"slotId":2}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_ConflictPayload(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &updateReservation.ConflictError{
		Conflict: &domain.Conflict{ReservationID: 9, SlotID: 2, ShiftName: "Shift B", Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
	})

	rec := serve(NewHandler(uc, logger.NewNop()), "5", `{"slotId":2}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, int64(9), resp.Conflict.ReservationID)
	assert.Equal(t, "2025-03-02", resp.Conflict.Date)
}

func TestHandle_InvalidID(t *testing.T) {
	uc := &mockUseCase{}
	rec := serve(NewHandler(uc, logger.NewNop()), "abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
