package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-GroomingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var (
	today    = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	tomorrow = today.AddDate(0, 0, 1)
)

type fakeRepo struct {
	items       map[uuid.UUID]*domain.Appointment
	lastFilter  domain.AppointmentFilter
	rescheduled map[uuid.UUID]types.TimeString
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:       map[uuid.UUID]*domain.Appointment{},
		rescheduled: map[uuid.UUID]types.TimeString{},
	}
}

func (r *fakeRepo) add(owner *uuid.UUID, status domain.AppointmentStatus) *domain.Appointment {
	a := &domain.Appointment{
		ID:                   uuid.New(),
		PetID:                uuid.New(),
		UserID:               owner,
		ScheduledDate:        tomorrow,
		ScheduledTime:        types.MustTimeString("10:00"),
		EndTime:              types.MustTimeString("11:00"),
		TotalDurationMinutes: 60,
		Status:               status,
	}
	r.items[a.ID] = a
	return a
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.lastFilter = filter
	result := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if filter.UserID != nil && (a.UserID == nil || *a.UserID != *filter.UserID) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	a, ok := r.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeRepo) Reschedule(_ context.Context, id uuid.UUID, _ time.Time, start, _ types.TimeString) error {
	r.rescheduled[id] = start
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

type fakePets struct{}

func (fakePets) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Pet, error) {
	pets := make([]*domain.Pet, 0, len(ids))
	for _, id := range ids {
		pets = append(pets, &domain.Pet{ID: id, Name: "Rex", Species: domain.SpeciesDog, Size: domain.SizeSmall})
	}
	return pets, nil
}

type fakeProfiles struct{}

func (fakeProfiles) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	profiles := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, &domain.Profile{ID: id, FullName: ptr.Ptr("Owner")})
	}
	return profiles, nil
}

type fakeGenerator struct {
	slots       []domain.TimeSlot
	lastExclude *uuid.UUID
}

func (g *fakeGenerator) GenerateForDuration(_ context.Context, _ time.Time, _ int, excludeID *uuid.UUID) ([]domain.TimeSlot, error) {
	g.lastExclude = excludeID
	return g.slots, nil
}

func (g *fakeGenerator) Now() time.Time { return today.Add(9 * time.Hour) }

type passTx struct{}

func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService(repo *fakeRepo, gen *fakeGenerator) *Service {
	if gen == nil {
		gen = &fakeGenerator{}
	}
	return NewService(repo, fakePets{}, fakeProfiles{}, gen, passTx{}, logger.Nop())
}

func TestListMine(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	repo.add(&owner, domain.StatusPending)
	repo.add(ptr.Ptr(uuid.New()), domain.StatusPending)

	resp, err := newService(repo, nil).ListMine(context.Background(), &models.ListMineRequest{UserID: owner})

	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "Rex", resp.Appointments[0].Pet.Name)
	assert.Equal(t, domain.DefaultListLimit, repo.lastFilter.Limit)
}

func TestListMine_InvalidStatus(t *testing.T) {
	_, err := newService(newFakeRepo(), nil).ListMine(context.Background(),
		&models.ListMineRequest{UserID: uuid.New(), Status: ptr.Ptr("lost")})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByRange(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	repo.add(&owner, domain.StatusConfirmed)
	svc := newService(repo, nil)

	resp, err := svc.ListByRange(context.Background(), &models.ListByRangeRequest{From: today, To: tomorrow})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	require.NotNil(t, resp.Appointments[0].Profile)
	assert.Equal(t, owner.String(), resp.Appointments[0].Profile.ID)

	_, err = svc.ListByRange(context.Background(), &models.ListByRangeRequest{From: tomorrow, To: today})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListByRange(context.Background(), &models.ListByRangeRequest{From: today, To: today.AddDate(1, 0, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet_AccessRules(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	appt := repo.add(&owner, domain.StatusPending)
	svc := newService(repo, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, appt.ID, owner, false)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, appt.ID, uuid.New(), true)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, appt.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Get(ctx, uuid.New(), owner, true)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	pending := repo.add(&owner, domain.StatusPending)
	inProgress := repo.add(&owner, domain.StatusInProgress)
	svc := newService(repo, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Cancel(ctx, pending.ID, uuid.New()), ErrAccessDenied)
	assert.ErrorIs(t, svc.Cancel(ctx, inProgress.ID, owner), ErrCannotCancel)

	require.NoError(t, svc.Cancel(ctx, pending.ID, owner))
	assert.Equal(t, domain.StatusCancelled, repo.items[pending.ID].Status)

	assert.ErrorIs(t, svc.Cancel(ctx, pending.ID, owner), ErrCannotCancel)
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo()
	appt := repo.add(nil, domain.StatusPending)
	svc := newService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdateStatus(ctx, appt.ID, &models.UpdateStatusRequest{Status: "in_progress"}))
	assert.Equal(t, domain.StatusInProgress, repo.items[appt.ID].Status)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, appt.ID, &models.UpdateStatusRequest{Status: "done"}), ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, uuid.New(), &models.UpdateStatusRequest{Status: "confirmed"}), ErrAppointmentNotFound)
}

func TestReschedule(t *testing.T) {
	repo := newFakeRepo()
	appt := repo.add(nil, domain.StatusConfirmed)
	cancelled := repo.add(nil, domain.StatusCancelled)
	gen := &fakeGenerator{slots: []domain.TimeSlot{
		{Time: types.MustTimeString("12:00"), Available: true},
		{Time: types.MustTimeString("12:30"), Available: false},
	}}
	svc := newService(repo, gen)
	ctx := context.Background()

	resp, err := svc.Reschedule(ctx, appt.ID, &models.RescheduleRequest{Date: tomorrow, Time: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, "12:00", resp.ScheduledTime)
	assert.Equal(t, "13:00", resp.EndTime)
	assert.Equal(t, &appt.ID, gen.lastExclude)
	assert.Equal(t, types.TimeString("12:00"), repo.rescheduled[appt.ID])

	_, err = svc.Reschedule(ctx, appt.ID, &models.RescheduleRequest{Date: tomorrow, Time: "12:30"})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	_, err = svc.Reschedule(ctx, cancelled.ID, &models.RescheduleRequest{Date: tomorrow, Time: "12:00"})
	assert.ErrorIs(t, err, ErrCannotReschedule)

	_, err = svc.Reschedule(ctx, uuid.New(), &models.RescheduleRequest{Date: tomorrow, Time: "12:00"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.Reschedule(ctx, appt.ID, &models.RescheduleRequest{Date: today.AddDate(0, 0, -1), Time: "12:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	appt := repo.add(nil, domain.StatusPending)
	svc := newService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), appt.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), appt.ID), ErrAppointmentNotFound)
}
