package estimate_duration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	estimateDuration "github.com/m04kA/SMC-GroomingService/internal/usecase/estimate_duration"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
)

type fakeUseCase struct {
	lastReq *estimateDuration.Request
	resp    *estimateDuration.Response
	err     error
}

func (f *fakeUseCase) Execute(_ context.Context, req *estimateDuration.Request) (*estimateDuration.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func newRequest(body string, role domain.Role) (*http.Request, uuid.UUID) {
	userID := uuid.New()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/estimate", strings.NewReader(body))
	return r.WithContext(middleware.WithPrincipal(r.Context(), middleware.Principal{UserID: userID, Role: role})), userID
}

func TestHandle_OK(t *testing.T) {
	serviceID := uuid.New()
	uc := &fakeUseCase{resp: &estimateDuration.Response{
		Estimations:  []estimateDuration.ServiceEstimate{{ServiceID: serviceID, ServiceName: "Стрижка", TimeMinutes: 75}},
		TotalMinutes: 75,
		Source:       estimateDuration.SourceHeuristic,
	}}
	h := NewHandler(uc, logger.Nop())

	body := fmt.Sprintf(`{"species":"dog","size":"large","coat_condition":"matted","service_ids":["%s"]}`, serviceID)
	req, userID := newRequest(body, domain.RoleClient)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`{"estimations":[{"service_id":"%s","service_name":"Стрижка","time_minutes":75}],"total_time_minutes":75,"source":"heuristic"}`,
		serviceID), rec.Body.String())
	assert.Equal(t, userID, uc.lastReq.ActorID)
	assert.False(t, uc.lastReq.IsAdmin)
	assert.Equal(t, estimateDuration.CoatMatted, uc.lastReq.CoatCondition)
	assert.Equal(t, "large", uc.lastReq.Size)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", estimateDuration.ErrInvalidInput, http.StatusBadRequest},
		{"service not found", fmt.Errorf("%w: id", estimateDuration.ErrServiceNotFound), http.StatusNotFound},
		{"pet not found", estimateDuration.ErrPetNotFound, http.StatusNotFound},
		{"foreign pet", estimateDuration.ErrForbidden, http.StatusForbidden},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.Nop())
			req, _ := newRequest(`{"coat_condition":"good","service_ids":[]}`, domain.RoleAdmin)
			rec := httptest.NewRecorder()
			h.Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.Nop())

	req, _ := newRequest(`{"coat_condition":`, domain.RoleClient)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments/estimate", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uc.lastReq)
}
