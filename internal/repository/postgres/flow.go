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

const flowColumns = `id, name, created_by, updated_by, created_at, updated_at`

type flowRepository struct {
	BaseRepository
}

func NewFlowRepository(db *sqlx.DB, opts ...Option) repository.FlowRepository {
	return &flowRepository{BaseRepository: NewBaseRepository(db, opts...)}
}

func (r *flowRepository) Create(ctx context.Context, input model.CreateFlowInput) (*model.Flow, error) {
	start := time.Now()
	query := `
		INSERT INTO flows (id, name, created_by, updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + flowColumns

	var flow model.Flow
	err := r.db.GetContext(ctx, &flow, query, r.newID(), input.Name, input.CreatedBy, input.UpdatedBy)
	r.observe("flow.create", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow: %w", classify(err))
	}
	return &flow, nil
}

func (r *flowRepository) Get(ctx context.Context, id uuid.UUID) (*model.Flow, error) {
	start := time.Now()
	var flow model.Flow
	err := r.db.GetContext(ctx, &flow, `SELECT `+flowColumns+` FROM flows WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		r.observe("flow.get", start, nil)
		return nil, nil
	}
	r.observe("flow.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get flow: %w", err)
	}
	return &flow, nil
}

func (r *flowRepository) Update(ctx context.Context, id uuid.UUID, input model.UpdateFlowInput) (*model.Flow, error) {
	start := time.Now()
	var b updateBuilder
	if input.Name != nil {
		b.set("name", *input.Name)
	}
	if input.UpdatedBy != nil {
		b.set("updated_by", *input.UpdatedBy)
	}
	query, args := b.build("flows", id, flowColumns)

	var flow model.Flow
	err := r.db.GetContext(ctx, &flow, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		r.observe("flow.update", start, nil)
		return nil, nil
	}
	r.observe("flow.update", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update flow: %w", classify(err))
	}
	return &flow, nil
}

// Delete removes only the flow row; stages that reference it are left alone.
func (r *flowRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, `DELETE FROM flows WHERE id = $1`, id)
	r.observe("flow.delete", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to delete flow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *flowRepository) List(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Flow], error) {
	start := time.Now()
	params = params.Normalize()
	page := &model.Page[*model.Flow]{Data: []*model.Flow{}}

	err := r.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &page.Total, `SELECT COUNT(*) FROM flows`); err != nil {
			return fmt.Errorf("failed to count flows: %w", err)
		}
		query := `SELECT ` + flowColumns + ` FROM flows ORDER BY created_at, id LIMIT $1 OFFSET $2`
		if err := tx.SelectContext(ctx, &page.Data, query, params.Limit, params.Offset); err != nil {
			return fmt.Errorf("failed to list flows: %w", err)
		}
		return nil
	})
	r.observe("flow.list", start, err)
	if err != nil {
		return nil, err
	}
	return page, nil
}
