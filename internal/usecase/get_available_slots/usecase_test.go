package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/slots"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, date time.Time, serviceIDs []uuid.UUID) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, date, serviceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

var date = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func TestExecute_Success(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, date, ids).Return([]domain.TimeSlot{
		{Time: types.MustTimeString("09:00"), Available: true},
		{Time: types.MustTimeString("09:30"), Available: false},
	}, nil)

	resp, err := NewUseCase(gen, logger.Nop()).Execute(context.Background(), &Request{Date: date, ServiceIDs: ids})

	require.NoError(t, err)
	assert.Equal(t, date, resp.Date)
	assert.Equal(t, []Slot{
		{StartTime: "09:00", Available: true},
		{StartTime: "09:30", Available: false},
	}, resp.Slots)
	gen.AssertExpectations(t)
}

func TestExecute_EmptyDayIsNotAnError(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, date, ids).Return([]domain.TimeSlot{}, nil)

	resp, err := NewUseCase(gen, logger.Nop()).Execute(context.Background(), &Request{Date: date, ServiceIDs: ids})

	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Validation(t *testing.T) {
	gen := &mockGenerator{}
	uc := NewUseCase(gen, logger.Nop())

	tests := []struct {
		name string
		req  *Request
	}{
		{"nil request", nil},
		{"zero date", &Request{ServiceIDs: []uuid.UUID{uuid.New()}}},
		{"no services", &Request{Date: date}},
		{"nil service id", &Request{Date: date, ServiceIDs: []uuid.UUID{uuid.Nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_GeneratorErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate", fmt.Errorf("%w: duplicate", slots.ErrInvalidInput), ErrInvalidInput},
		{"unknown service", fmt.Errorf("%w: x", slots.ErrServiceNotFound), ErrServiceNotFound},
		{"store down", fmt.Errorf("%w: db", slots.ErrDependencyUnavailable), ErrInternal},
		{"unexpected", errors.New("boom"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []uuid.UUID{uuid.New()}
			gen := &mockGenerator{}
			gen.On("Generate", mock.Anything, date, ids).Return(nil, tt.err)

			_, err := NewUseCase(gen, logger.Nop()).Execute(context.Background(), &Request{Date: date, ServiceIDs: ids})

			assert.ErrorIs(t, err, tt.want)
		})
	}
}
