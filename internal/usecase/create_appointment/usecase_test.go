package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/infra/reservation"
	petRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/pet"
	"github.com/m04kA/SMC-GroomingService/internal/service/slots"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
	"github.com/m04kA/SMC-GroomingService/pkg/txmanager"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var (
	date = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now  = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
)

type fakeGenerator struct {
	services map[uuid.UUID]*domain.Service
	slots    []domain.TimeSlot
	err      error

	lastDuration int
}

func (g *fakeGenerator) ResolveServices(_ context.Context, ids []uuid.UUID) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := g.services[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", slots.ErrServiceNotFound, id)
		}
		result = append(result, svc)
	}
	return result, nil
}

func (g *fakeGenerator) GenerateForDuration(_ context.Context, _ time.Time, total int, _ *uuid.UUID) ([]domain.TimeSlot, error) {
	g.lastDuration = total
	return g.slots, g.err
}

func (g *fakeGenerator) Now() time.Time { return now }

type fakeAppointments struct {
	created []*domain.Appointment
	err     error
}

func (r *fakeAppointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	appt.ID = uuid.New()
	r.created = append(r.created, appt)
	return appt, nil
}

type fakePets struct {
	pets    map[uuid.UUID]*domain.Pet
	created []*domain.Pet
}

func (r *fakePets) GetByID(_ context.Context, id uuid.UUID) (*domain.Pet, error) {
	pet, ok := r.pets[id]
	if !ok {
		return nil, petRepo.ErrPetNotFound
	}
	return pet, nil
}

func (r *fakePets) Create(_ context.Context, pet *domain.Pet) (*domain.Pet, error) {
	pet.ID = uuid.New()
	r.created = append(r.created, pet)
	return pet, nil
}

type fakeProfiles struct {
	profiles map[uuid.UUID]*domain.Profile
}

func (r *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

type fakeLocker struct {
	err      error
	acquired int
	released int
}

func (l *fakeLocker) Acquire(context.Context, time.Time, types.TimeString) (reservation.ReleaseFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

type fakeTx struct {
	err   error
	calls int
}

func (t *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	if t.err != nil {
		return t.err
	}
	return fn(ctx)
}

type fixture struct {
	generator    *fakeGenerator
	appointments *fakeAppointments
	pets         *fakePets
	profiles     *fakeProfiles
	locker       *fakeLocker
	tx           *fakeTx

	owner uuid.UUID
	pet   *domain.Pet
	wash  *domain.Service
	nails *domain.Service
}

func newFixture() *fixture {
	owner := uuid.New()
	pet := &domain.Pet{ID: uuid.New(), OwnerID: &owner, Name: "Rex", Species: domain.SpeciesDog, Size: domain.SizeMedium}
	wash := &domain.Service{ID: uuid.New(), Name: "Bath", DurationMinutes: 60, Price: 1500, IsActive: true}
	nails := &domain.Service{ID: uuid.New(), Name: "Nails", DurationMinutes: 30, Price: 500, IsActive: true}

	return &fixture{
		generator: &fakeGenerator{
			services: map[uuid.UUID]*domain.Service{wash.ID: wash, nails.ID: nails},
			slots: []domain.TimeSlot{
				{Time: types.MustTimeString("09:00"), Available: true},
				{Time: types.MustTimeString("09:30"), Available: false},
				{Time: types.MustTimeString("10:00"), Available: true},
			},
		},
		appointments: &fakeAppointments{},
		pets:         &fakePets{pets: map[uuid.UUID]*domain.Pet{pet.ID: pet}},
		profiles: &fakeProfiles{profiles: map[uuid.UUID]*domain.Profile{
			owner: {ID: owner, FullName: ptr.Ptr("Anna"), Role: domain.RoleClient},
		}},
		locker: &fakeLocker{},
		tx:     &fakeTx{},
		owner:  owner,
		pet:    pet,
		wash:   wash,
		nails:  nails,
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(f.generator, f.appointments, f.pets, f.profiles, f.locker, f.tx, nil, logger.Nop())
}

func (f *fixture) clientRequest(clock string) *Request {
	return &Request{
		ActorID:    f.owner,
		Source:     SourceClient,
		PetID:      &f.pet.ID,
		ServiceIDs: []uuid.UUID{f.wash.ID, f.nails.ID},
		Date:       date,
		Time:       types.MustTimeString(clock),
		Notes:      ptr.Ptr("nervous around dryers"),
	}
}

func TestExecute_ClientBooksOwnPet(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), f.clientRequest("10:00"))

	require.NoError(t, err)
	appt := resp.Appointment
	assert.Equal(t, domain.StatusPending, appt.Status)
	assert.Equal(t, "10:00", appt.ScheduledTime.String())
	assert.Equal(t, "11:30", appt.EndTime.String())
	assert.Equal(t, 90, appt.TotalDurationMinutes)
	assert.Equal(t, 2000.0, appt.TotalPrice)
	assert.Equal(t, &f.owner, appt.UserID)
	require.Len(t, appt.Services, 2)
	assert.Equal(t, f.wash.ID, appt.Services[0].ServiceID)
	assert.Equal(t, 1, appt.Services[1].Position)
	assert.Equal(t, f.pet, appt.Pet)
	require.NotNil(t, appt.Profile)
	assert.Equal(t, "Anna", *appt.Profile.FullName)

	assert.Equal(t, 90, f.generator.lastDuration)
	assert.Equal(t, 1, f.locker.acquired)
	assert.Equal(t, 1, f.locker.released)
	assert.Len(t, f.appointments.created, 1)
}

func TestExecute_ClientCannotBookForeignPet(t *testing.T) {
	f := newFixture()
	req := f.clientRequest("10:00")
	req.ActorID = uuid.New()

	_, err := f.useCase().Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, f.tx.calls)
}

func TestExecute_AdminBooksAnyPet(t *testing.T) {
	f := newFixture()
	req := f.clientRequest("10:00")
	req.ActorID = uuid.New()
	req.Source = SourceAdmin

	resp, err := f.useCase().Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, &f.owner, resp.Appointment.UserID)
}

func TestExecute_AdminCreatesPetInline(t *testing.T) {
	f := newFixture()
	req := &Request{
		ActorID:    uuid.New(),
		Source:     SourceAdmin,
		NewPet:     &NewPet{Name: "  Murka ", Species: domain.SpeciesCat, Size: domain.SizeSmall},
		ServiceIDs: []uuid.UUID{f.nails.ID},
		Date:       date,
		Time:       types.MustTimeString("09:00"),
	}

	resp, err := f.useCase().Execute(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, f.pets.created, 1)
	assert.Equal(t, "Murka", f.pets.created[0].Name)
	assert.Equal(t, f.pets.created[0].ID, resp.Appointment.PetID)
	assert.Nil(t, resp.Appointment.UserID)
	assert.Nil(t, resp.Appointment.Profile)
}

func TestExecute_ClientCannotCreatePetInline(t *testing.T) {
	f := newFixture()
	req := f.clientRequest("10:00")
	req.PetID = nil
	req.NewPet = &NewPet{Name: "Murka", Species: domain.SpeciesCat, Size: domain.SizeSmall}

	_, err := f.useCase().Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExecute_PetNotFound(t *testing.T) {
	f := newFixture()
	req := f.clientRequest("10:00")
	req.PetID = ptr.Ptr(uuid.New())

	_, err := f.useCase().Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrPetNotFound)
}

func TestExecute_UnknownService(t *testing.T) {
	f := newFixture()
	req := f.clientRequest("10:00")
	req.ServiceIDs = []uuid.UUID{uuid.New()}

	_, err := f.useCase().Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_SlotNoLongerAvailable(t *testing.T) {
	tests := []struct {
		name  string
		clock string
	}{
		{"taken meanwhile", "09:30"},
		{"never generated", "09:15"},
		{"outside hours", "20:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.useCase().Execute(context.Background(), f.clientRequest(tt.clock))

			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Empty(t, f.appointments.created)
			assert.Equal(t, f.locker.acquired, f.locker.released)
		})
	}
}

func TestExecute_SlotHeldByAnotherBooking(t *testing.T) {
	f := newFixture()
	f.locker.err = reservation.ErrSlotHeld

	_, err := f.useCase().Execute(context.Background(), f.clientRequest("10:00"))

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Zero(t, f.tx.calls)
}

func TestExecute_ReservationStoreDownFallsBackToTransaction(t *testing.T) {
	f := newFixture()
	f.locker.err = fmt.Errorf("%w: dial tcp", reservation.ErrUnavailable)

	resp, err := f.useCase().Execute(context.Background(), f.clientRequest("10:00"))

	require.NoError(t, err)
	assert.NotNil(t, resp.Appointment)
	assert.Equal(t, 1, f.tx.calls)
}

func TestExecute_SerializationRetriesExhausted(t *testing.T) {
	f := newFixture()
	f.tx.err = fmt.Errorf("%w: could not serialize access", txmanager.ErrSerialization)

	_, err := f.useCase().Execute(context.Background(), f.clientRequest("10:00"))

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_StoreFailures(t *testing.T) {
	t.Run("recompute", func(t *testing.T) {
		f := newFixture()
		f.generator.err = fmt.Errorf("%w: db down", slots.ErrDependencyUnavailable)

		_, err := f.useCase().Execute(context.Background(), f.clientRequest("10:00"))

		assert.ErrorIs(t, err, ErrInternal)
		assert.ErrorIs(t, err, slots.ErrDependencyUnavailable)
	})

	t.Run("insert", func(t *testing.T) {
		f := newFixture()
		f.appointments.err = errors.New("insert failed")

		_, err := f.useCase().Execute(context.Background(), f.clientRequest("10:00"))

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()
	req := f.clientRequest("10:00")
	req.Date = date.AddDate(0, 0, -5)

	_, err := f.useCase().Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{"no actor", func(r *Request) { r.ActorID = uuid.Nil }},
		{"unknown source", func(r *Request) { r.Source = "bot" }},
		{"no pet", func(r *Request) { r.PetID = nil }},
		{"both pets", func(r *Request) {
			r.Source = SourceAdmin
			r.NewPet = &NewPet{Name: "x", Species: domain.SpeciesDog, Size: domain.SizeSmall}
		}},
		{"no services", func(r *Request) { r.ServiceIDs = nil }},
		{"no date", func(r *Request) { r.Date = time.Time{} }},
		{"no time", func(r *Request) { r.Time = "" }},
		{"bad time", func(r *Request) { r.Time = "25:61" }},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(string(make([]byte, domain.MaxNotesLength+1))) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.clientRequest("10:00")
			tt.modify(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestValidateNewPet(t *testing.T) {
	tests := []struct {
		name string
		pet  NewPet
	}{
		{"empty name", NewPet{Name: " ", Species: domain.SpeciesDog, Size: domain.SizeSmall}},
		{"bad species", NewPet{Name: "x", Species: "parrot", Size: domain.SizeSmall}},
		{"bad size", NewPet{Name: "x", Species: domain.SpeciesDog, Size: "huge"}},
		{"negative age", NewPet{Name: "x", Species: domain.SpeciesDog, Size: domain.SizeSmall, AgeYears: ptr.Ptr(-1)}},
		{"zero weight", NewPet{Name: "x", Species: domain.SpeciesDog, Size: domain.SizeSmall, WeightKg: ptr.Ptr(0.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, validateNewPet(&tt.pet), ErrInvalidInput)
		})
	}
}
