package update_slot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/service/slots"
	"github.com/m04kA/SMC-RepairService/internal/service/slots/models"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Update(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.SlotResponse)
	return resp, args.Error(1)
}

func newRouter(svc SlotService) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/slots/{slotId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPut)
	return router
}

func renamed(req *models.UpdateSlotRequest) bool {
	return req.ShiftName != nil && *req.ShiftName == "Shift B" && req.StartTime == nil && req.EndTime == nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		resp       *models.SlotResponse
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "updated", resp: &models.SlotResponse{ID: 3, ShiftName: "Shift B"}, wantStatus: http.StatusOK},
		{name: "invalid", err: fmt.Errorf("%w: shiftName must not be empty", slots.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantError: "shiftName must not be empty"},
		{name: "not found", err: slots.ErrSlotNotFound, wantStatus: http.StatusNotFound, wantError: msgNotFound},
		{name: "duplicate", err: slots.ErrDuplicateShiftName, wantStatus: http.StatusConflict, wantError: msgDuplicateName},
		{name: "overlap", err: slots.ErrSlotOverlap, wantStatus: http.StatusConflict, wantError: msgOverlap},
		{name: "internal", err: slots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Update", mock.Anything, int64(3), mock.MatchedBy(renamed)).Return(tt.resp, tt.err).Once()

			req := httptest.NewRequest(http.MethodPut, "/slots/3", strings.NewReader(`{"shiftName":"Shift B"}`))
			rec := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			switch {
			case tt.resp != nil:
				var body models.SlotResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, *tt.resp, body)
			case tt.wantError != "":
				var body handlers.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body.Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "non-numeric id", path: "/slots/abc", body: `{"shiftName":"Shift B"}`},
		{name: "malformed body", path: "/slots/3", body: `{"shiftName":`},
		{name: "unknown field", path: "/slots/3", body: `{"isAvailable":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}

			req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
