package get_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairService/internal/service/reservations"
	"github.com/m04kA/SMC-RepairService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.ReservationResponse, error) {
	args := m.Called(ctx, id, userID, isAdmin)
	resp, _ := args.Get(0).(*models.ReservationResponse)
	return resp, args.Error(1)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		resp       *models.ReservationResponse
		err        error
		wantStatus int
	}{
		{name: "owner", resp: &models.ReservationResponse{ID: 5, UserID: 42}, wantStatus: http.StatusOK},
		{name: "admin", role: middleware.RoleAdmin, resp: &models.ReservationResponse{ID: 5, UserID: 1}, wantStatus: http.StatusOK},
		{name: "foreign", err: reservations.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "missing", err: reservations.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", err: reservations.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetByID", mock.Anything, int64(5), int64(42), tt.role == middleware.RoleAdmin).Return(tt.resp, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/reservations/5", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "5"})
			req = req.WithContext(middleware.WithUser(req.Context(), 42, tt.role))
			rec := httptest.NewRecorder()

			NewHandler(svc, logger.NewNop()).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
