package pet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

const petsTable = "pets"

var petColumns = []string{
	"id",
	"owner_id",
	"name",
	"species",
	"breed",
	"size",
	"age_years",
	"weight_kg",
	"notes",
	"photo_url",
	"created_at",
	"updated_at",
}

// Repository репозиторий питомцев
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория питомцев
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает питомца по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(petColumns...).
		From(petsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	pet, err := scanPet(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan pet: %w", ErrScanRow, err)
	}

	return pet, nil
}

// GetByIDs получает питомцев по списку ID (порядок не гарантирован)
func (r *Repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Pet, error) {
	if len(ids) == 0 {
		return []*domain.Pet{}, nil
	}

	selectBuilder := psqlbuilder.Select(petColumns...).
		From(petsTable).
		Where(squirrel.Eq{"id": ids})

	return r.query(ctx, "GetByIDs", selectBuilder)
}

// ListByOwner получает питомцев владельца
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Pet, error) {
	selectBuilder := psqlbuilder.Select(petColumns...).
		From(petsTable).
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("name ASC")

	return r.query(ctx, "ListByOwner", selectBuilder)
}

// Search ищет питомцев по подстроке имени (без учета регистра), для администратора
func (r *Repository) Search(ctx context.Context, name string, limit int) ([]*domain.Pet, error) {
	selectBuilder := psqlbuilder.Select(petColumns...).
		From(petsTable).
		OrderBy("name ASC").
		Limit(uint64(limit))

	if name = strings.TrimSpace(name); name != "" {
		selectBuilder = selectBuilder.Where(squirrel.ILike{"name": "%" + escapeLike(name) + "%"})
	}

	return r.query(ctx, "Search", selectBuilder)
}

// Create создает питомца
func (r *Repository) Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(petsTable).
		Columns("owner_id", "name", "species", "breed", "size", "age_years", "weight_kg", "notes", "photo_url").
		Values(pet.OwnerID, pet.Name, pet.Species, pet.Breed, pet.Size, pet.AgeYears, pet.WeightKg, pet.Notes, pet.PhotoURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&pet.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	pet.CreatedAt = createdAt.Time
	pet.UpdatedAt = updatedAt.Time

	return pet, nil
}

// Update обновляет карточку питомца (владелец не меняется)
func (r *Repository) Update(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(petsTable).
		Set("name", pet.Name).
		Set("species", pet.Species).
		Set("breed", pet.Breed).
		Set("size", pet.Size).
		Set("age_years", pet.AgeYears).
		Set("weight_kg", pet.WeightKg).
		Set("notes", pet.Notes).
		Set("photo_url", pet.PhotoURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": pet.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	pet.CreatedAt = createdAt.Time
	pet.UpdatedAt = updatedAt.Time

	return pet, nil
}

// Delete удаляет питомца
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(petsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isForeignKeyViolation(err) {
		return ErrPetInUse
	}
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPetNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Pet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	pets := make([]*domain.Pet, 0)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		pets = append(pets, pet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return pets, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPet(row rowScanner) (*domain.Pet, error) {
	var pet domain.Pet
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&pet.ID,
		&pet.OwnerID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.Size,
		&pet.AgeYears,
		&pet.WeightKg,
		&pet.Notes,
		&pet.PhotoURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	pet.CreatedAt = createdAt.Time
	pet.UpdatedAt = updatedAt.Time

	return &pet, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// isForeignKeyViolation проверяет SQLSTATE 23503 (на питомца ссылаются записи)
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
