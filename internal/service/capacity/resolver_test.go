package capacity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListStaffSchedules(ctx context.Context, dayOfWeek *int) ([]*domain.StaffSchedule, error) {
	args := m.Called(ctx, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StaffSchedule), args.Error(1)
}

func (m *mockRepo) GetDefaultCapacity(ctx context.Context) (*domain.DefaultCapacity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DefaultCapacity), args.Error(1)
}

func window(day int, start, end string, perHour int) *domain.StaffSchedule {
	return &domain.StaffSchedule{
		DayOfWeek:           day,
		StartTime:           types.MustTimeString(start),
		EndTime:             types.MustTimeString(end),
		StaffCount:          1,
		AppointmentsPerHour: perHour,
	}
}

func TestResolver_WindowOverridesDefault(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListStaffSchedules", mock.Anything, mock.MatchedBy(func(d *int) bool { return *d == 1 })).
		Return([]*domain.StaffSchedule{window(1, "09:00", "12:00", 3)}, nil)
	repo.On("GetDefaultCapacity", mock.Anything).
		Return(&domain.DefaultCapacity{AppointmentsPerHour: 1}, nil)

	r := NewResolver(repo)
	ctx := context.Background()

	tests := []struct {
		clock string
		want  int
	}{
		{"09:00", 3},
		{"11:30", 3},
		{"12:00", 1},
		{"08:30", 1},
		{"17:00", 1},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, err := r.Resolve(ctx, 1, types.MustTimeString(tt.clock))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_MissingDefaultFallsBackToOne(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListStaffSchedules", mock.Anything, mock.Anything).Return([]*domain.StaffSchedule{}, nil)
	repo.On("GetDefaultCapacity", mock.Anything).Return(nil, capacityRepo.ErrDefaultCapacityNotFound)

	got, err := NewResolver(repo).Resolve(context.Background(), 3, types.MustTimeString("10:00"))

	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestResolver_FirstMatchingWindowWins(t *testing.T) {
	day := &DaySchedule{
		DayOfWeek: 2,
		Windows: []*domain.StaffSchedule{
			window(2, "09:00", "13:00", 2),
			window(2, "12:00", "15:00", 5),
		},
		Default: 4,
	}

	assert.Equal(t, 2, day.At(types.MustTimeString("12:30")))
	assert.Equal(t, 5, day.At(types.MustTimeString("13:00")))
	assert.Equal(t, 4, day.At(types.MustTimeString("15:00")))
}

func TestDaySchedule_NeverBelowOne(t *testing.T) {
	day := &DaySchedule{Windows: []*domain.StaffSchedule{window(0, "10:00", "11:00", 0)}, Default: 0}

	assert.Equal(t, 1, day.At(types.MustTimeString("10:00")))
	assert.Equal(t, 1, day.At(types.MustTimeString("12:00")))
}

func TestResolver_StoreFailure(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("staff schedules", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("ListStaffSchedules", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := NewResolver(repo).Resolve(context.Background(), 1, types.MustTimeString("10:00"))
		assert.ErrorIs(t, err, ErrDependencyUnavailable)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("default capacity", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("ListStaffSchedules", mock.Anything, mock.Anything).Return([]*domain.StaffSchedule{}, nil)
		repo.On("GetDefaultCapacity", mock.Anything).Return(nil, boom)

		_, err := NewResolver(repo).ForDay(context.Background(), 1)
		assert.ErrorIs(t, err, ErrDependencyUnavailable)
	})
}
