package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/kiliniks-api/internal/model"
	"github.com/jwalitptl/kiliniks-api/internal/repository"
)

const locationColumns = `id, name, description, created_by, updated_by, created_at, updated_at`

type locationRepository struct {
	BaseRepository
}

func NewLocationRepository(db *sqlx.DB, opts ...Option) repository.LocationRepository {
	return &locationRepository{BaseRepository: NewBaseRepository(db, opts...)}
}

func (r *locationRepository) Create(ctx context.Context, input model.CreateLocationInput) (*model.Location, error) {
	start := time.Now()
	query := `
		INSERT INTO locations (id, name, description, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + locationColumns

	var location model.Location
	err := r.db.GetContext(ctx, &location, query,
		r.newID(),
		input.Name,
		input.Description,
		input.CreatedBy,
		input.UpdatedBy,
	)
	r.observe("location.create", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", classify(err))
	}
	return &location, nil
}

func (r *locationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	start := time.Now()
	var location model.Location
	err := r.db.GetContext(ctx, &location, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		r.observe("location.get", start, nil)
		return nil, nil
	}
	r.observe("location.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &location, nil
}

func (r *locationRepository) Update(ctx context.Context, id uuid.UUID, input model.UpdateLocationInput) (*model.Location, error) {
	start := time.Now()
	var b updateBuilder
	if input.Name != nil {
		b.set("name", *input.Name)
	}
	if input.Description != nil {
		b.set("description", *input.Description)
	}
	if input.UpdatedBy != nil {
		b.set("updated_by", *input.UpdatedBy)
	}
	query, args := b.build("locations", id, locationColumns)

	var location model.Location
	err := r.db.GetContext(ctx, &location, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		r.observe("location.update", start, nil)
		return nil, nil
	}
	r.observe("location.update", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", classify(err))
	}
	return &location, nil
}

// Delete leaves stage_locations rows pointing at the location in place.
func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	r.observe("location.delete", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to delete location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *locationRepository) List(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Location], error) {
	start := time.Now()
	params = params.Normalize()
	page := &model.Page[*model.Location]{Data: []*model.Location{}}

	err := r.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &page.Total, `SELECT COUNT(*) FROM locations`); err != nil {
			return fmt.Errorf("failed to count locations: %w", err)
		}
		query := `SELECT ` + locationColumns + ` FROM locations ORDER BY created_at, id LIMIT $1 OFFSET $2`
		if err := tx.SelectContext(ctx, &page.Data, query, params.Limit, params.Offset); err != nil {
			return fmt.Errorf("failed to list locations: %w", err)
		}
		return nil
	})
	r.observe("location.list", start, err)
	if err != nil {
		return nil, err
	}
	return page, nil
}
