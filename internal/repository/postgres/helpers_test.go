package postgres

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/kiliniks-api/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// sequence hands out the given ids in order.
func sequence(ids ...uuid.UUID) repository.IDGenerator {
	i := 0
	return func() uuid.UUID {
		id := ids[i]
		i++
		return id
	}
}

var (
	stageCols     = []string{"id", "flow_id", "name", "has_notes", "sound_url", "created_by", "updated_by", "created_at", "updated_at"}
	salesItemCols = []string{"id", "stage_id", "name", "item_type", "price", "cost_price", "default_quantity", "default_panel_category", "panel_categories"}
	flowCols      = []string{"id", "name", "created_by", "updated_by", "created_at", "updated_at"}
	fixedTime     = time.Date(2023, 10, 10, 9, 0, 0, 0, time.UTC)
)

func stageRow(id, flowID uuid.UUID, name string) *sqlmock.Rows {
	return sqlmock.NewRows(stageCols).
		AddRow(id.String(), flowID.String(), name, false, nil, "u1", nil, fixedTime, nil)
}

func salesItemRow(id, stageID uuid.UUID, name, price string) *sqlmock.Rows {
	return sqlmock.NewRows(salesItemCols).
		AddRow(id.String(), stageID.String(), name, nil, price, nil, 1.0, nil, nil)
}
