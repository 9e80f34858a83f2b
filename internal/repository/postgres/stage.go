package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/kiliniks-api/internal/model"
	"github.com/jwalitptl/kiliniks-api/internal/repository"
	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
)

const (
	stageColumns = `id, flow_id, name, has_notes, sound_url, created_by, updated_by, created_at, updated_at`

	salesItemColumns = `id, stage_id, name, item_type, price, cost_price,
		default_quantity, default_panel_category, panel_categories`
)

type stageRepository struct {
	BaseRepository
}

// NewStageRepository returns a StageRepository backed by PostgreSQL.
//
// Concurrent updates to the same stage are not versioned: when two requests
// replace the child collections at the same time the last commit wins.
func NewStageRepository(db *sqlx.DB, opts ...Option) repository.StageRepository {
	return &stageRepository{BaseRepository: NewBaseRepository(db, opts...)}
}

func (r *stageRepository) Create(ctx context.Context, input model.CreateStageInput) (*model.Stage, error) {
	start := time.Now()
	var stage model.Stage

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO stages (id, flow_id, name, has_notes, sound_url, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + stageColumns

		err := tx.GetContext(ctx, &stage, query,
			r.newID(),
			input.FlowID,
			input.Name,
			input.HasNotes,
			input.SoundURL,
			input.CreatedBy,
			input.UpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert stage: %w", classify(err))
		}

		if stage.SalesItems, err = r.insertSalesItems(ctx, tx, stage.ID, input.SalesItems, false); err != nil {
			return err
		}
		stage.LocationIDs, err = r.insertLocationLinks(ctx, tx, stage.ID, input.LocationIDs)
		return err
	})
	r.observe("stage.create", start, err)
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *stageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Stage, error) {
	start := time.Now()
	var stage *model.Stage

	err := r.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var row model.Stage
		err := tx.GetContext(ctx, &row, `SELECT `+stageColumns+` FROM stages WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get stage: %w", err)
		}

		if row.SalesItems, err = r.selectSalesItems(ctx, tx, id); err != nil {
			return err
		}
		if row.LocationIDs, err = r.selectLocationIDs(ctx, tx, id); err != nil {
			return err
		}
		stage = &row
		return nil
	})
	r.observe("stage.get", start, err)
	if err != nil {
		return nil, err
	}
	return stage, nil
}

func (r *stageRepository) Update(ctx context.Context, id uuid.UUID, input model.UpdateStageInput) (*model.Stage, error) {
	start := time.Now()
	var stage model.Stage

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var b updateBuilder
		if input.FlowID != nil {
			b.set("flow_id", *input.FlowID)
		}
		if input.Name != nil {
			b.set("name", *input.Name)
		}
		if input.HasNotes != nil {
			b.set("has_notes", *input.HasNotes)
		}
		if input.SoundURL != nil {
			b.set("sound_url", *input.SoundURL)
		}
		if input.UpdatedBy != nil {
			b.set("updated_by", *input.UpdatedBy)
		}

		query, args := b.build("stages", id, stageColumns)
		err := tx.GetContext(ctx, &stage, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			return errNoRow
		}
		if err != nil {
			return fmt.Errorf("failed to update stage: %w", classify(err))
		}

		if input.SalesItems != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM sales_items WHERE stage_id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete sales items: %w", err)
			}
			stage.SalesItems, err = r.insertSalesItems(ctx, tx, id, *input.SalesItems, true)
		} else {
			stage.SalesItems, err = r.selectSalesItems(ctx, tx, id)
		}
		if err != nil {
			return err
		}

		if input.LocationIDs != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM stage_locations WHERE stage_id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete location links: %w", err)
			}
			stage.LocationIDs, err = r.insertLocationLinks(ctx, tx, id, *input.LocationIDs)
		} else {
			stage.LocationIDs, err = r.selectLocationIDs(ctx, tx, id)
		}
		return err
	})
	r.observe("stage.update", start, err)
	if errors.Is(err, errNoRow) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

// Delete removes the child rows explicitly instead of relying on ON DELETE CASCADE.
func (r *stageRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	var deleted bool

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sales_items WHERE stage_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete sales items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM stage_locations WHERE stage_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete location links: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM stages WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete stage: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		deleted = rows > 0
		return nil
	})
	r.observe("stage.delete", start, err)
	if err != nil {
		return false, err
	}
	return deleted, nil
}

type stageLocationRow struct {
	StageID    uuid.UUID `db:"stage_id"`
	LocationID uuid.UUID `db:"location_id"`
}

// ListByFlow loads the stages and all their children in three queries from a
// single snapshot, oldest stage first.
func (r *stageRepository) ListByFlow(ctx context.Context, flowID uuid.UUID) ([]*model.Stage, error) {
	start := time.Now()
	stages := []*model.Stage{}

	err := r.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + stageColumns + ` FROM stages WHERE flow_id = $1 ORDER BY created_at ASC, id ASC`
		if err := tx.SelectContext(ctx, &stages, query, flowID); err != nil {
			return fmt.Errorf("failed to list stages: %w", err)
		}
		if len(stages) == 0 {
			return nil
		}

		ids := make(pq.StringArray, 0, len(stages))
		byID := make(map[uuid.UUID]*model.Stage, len(stages))
		for _, s := range stages {
			s.SalesItems = []model.SalesItem{}
			s.LocationIDs = []uuid.UUID{}
			ids = append(ids, s.ID.String())
			byID[s.ID] = s
		}

		var items []model.SalesItem
		query = `SELECT ` + salesItemColumns + ` FROM sales_items WHERE stage_id = ANY($1::uuid[])`
		if err := tx.SelectContext(ctx, &items, query, ids); err != nil {
			return fmt.Errorf("failed to list sales items: %w", err)
		}
		for _, item := range items {
			if s, ok := byID[item.StageID]; ok {
				s.SalesItems = append(s.SalesItems, item)
			}
		}

		var links []stageLocationRow
		query = `SELECT stage_id, location_id FROM stage_locations WHERE stage_id = ANY($1::uuid[])`
		if err := tx.SelectContext(ctx, &links, query, ids); err != nil {
			return fmt.Errorf("failed to list location links: %w", err)
		}
		for _, link := range links {
			if s, ok := byID[link.StageID]; ok {
				s.LocationIDs = append(s.LocationIDs, link.LocationID)
			}
		}
		return nil
	})
	r.observe("stage.list_by_flow", start, err)
	if err != nil {
		return nil, err
	}
	return stages, nil
}

// insertSalesItems writes items under stageID. With pinIDs set, an item that
// already carries an id keeps it; otherwise every item gets a fresh one.
func (r *stageRepository) insertSalesItems(ctx context.Context, tx *sqlx.Tx, stageID uuid.UUID, inputs []model.SalesItemInput, pinIDs bool) ([]model.SalesItem, error) {
	query := `
		INSERT INTO sales_items (` + salesItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + salesItemColumns

	items := make([]model.SalesItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Price == nil || in.DefaultQuantity == nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("sales item %d: price and defaultQuantity are required", i), nil)
		}

		var id uuid.UUID
		if pinIDs && in.ID != nil {
			id = *in.ID
		} else {
			id = r.newID()
		}

		var item model.SalesItem
		err := tx.GetContext(ctx, &item, query,
			id,
			stageID,
			in.Name,
			in.ItemType,
			*in.Price,
			in.CostPrice,
			*in.DefaultQuantity,
			in.DefaultPanelCategory,
			in.PanelCategories,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sales item: %w", classify(err))
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *stageRepository) insertLocationLinks(ctx context.Context, tx *sqlx.Tx, stageID uuid.UUID, locationIDs []uuid.UUID) ([]uuid.UUID, error) {
	for _, locationID := range locationIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO stage_locations (stage_id, location_id) VALUES ($1, $2)`,
			stageID, locationID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert location link: %w", classify(err))
		}
	}
	return append([]uuid.UUID{}, locationIDs...), nil
}

func (r *stageRepository) selectSalesItems(ctx context.Context, tx *sqlx.Tx, stageID uuid.UUID) ([]model.SalesItem, error) {
	items := []model.SalesItem{}
	err := tx.SelectContext(ctx, &items, `SELECT `+salesItemColumns+` FROM sales_items WHERE stage_id = $1`, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales items: %w", err)
	}
	return items, nil
}

func (r *stageRepository) selectLocationIDs(ctx context.Context, tx *sqlx.Tx, stageID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := tx.SelectContext(ctx, &ids, `SELECT location_id FROM stage_locations WHERE stage_id = $1`, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get location links: %w", err)
	}
	return ids, nil
}
