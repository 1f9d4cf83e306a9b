package get_available_slots

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-GroomingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

type fakeUseCase struct {
	lastReq *getAvailableSlots.Request
	err     error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &getAvailableSlots.Response{
		Date: req.Date,
		Slots: []getAvailableSlots.Slot{
			{StartTime: types.MustTimeString("09:00"), Available: true},
			{StartTime: types.MustTimeString("09:30"), Available: false},
		},
	}, nil
}

func TestHandle_Post(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.Nop())
	id := uuid.New()

	body := fmt.Sprintf(`{"date":"2026-10-19","service_ids":["%s"]}`, id)
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/slots/available", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2026-10-19","slots":[{"time":"09:00","available":true},{"time":"09:30","available":false}]}`, rec.Body.String())
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), uc.lastReq.Date)
	assert.Equal(t, []uuid.UUID{id}, uc.lastReq.ServiceIDs)
}

func TestHandleGet(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.Nop())
	a, b := uuid.New(), uuid.New()

	rec := httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/slots/available?date=2026-10-19&service_ids=%s,%s", a, b), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{a, b}, uc.lastReq.ServiceIDs)
}

func TestHandle_Errors(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name       string
		target     string
		ucErr      error
		wantStatus int
	}{
		{"missing date", "/slots?service_ids=" + id, nil, http.StatusBadRequest},
		{"bad date", "/slots?date=19.10.2026&service_ids=" + id, nil, http.StatusBadRequest},
		{"missing services", "/slots?date=2026-10-19", nil, http.StatusBadRequest},
		{"bad service id", "/slots?date=2026-10-19&service_ids=abc", nil, http.StatusBadRequest},
		{"service not found", "/slots?date=2026-10-19&service_ids=" + id, getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{"invalid input", "/slots?date=2026-10-19&service_ids=" + id, getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{"internal", "/slots?date=2026-10-19&service_ids=" + id, getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.ucErr}, logger.Nop())
			rec := httptest.NewRecorder()

			h.HandleGet(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, logger.Nop())
	rec := httptest.NewRecorder()

	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"code":400,"message":"`+msgInvalidRequestBody+`"}`, rec.Body.String())
}
