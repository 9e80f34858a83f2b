package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/kiliniks-api/internal/model"
)

var locationCols = []string{"id", "name", "description", "created_by", "updated_by", "created_at", "updated_at"}

func TestLocationRepository_CreateAndGet(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	repo := NewLocationRepository(db, WithIDGenerator(sequence(id)))
	description := "Ground floor"

	mock.ExpectQuery(`INSERT INTO locations`).
		WithArgs(id, "Room 1", description, "u1", nil).
		WillReturnRows(sqlmock.NewRows(locationCols).AddRow(id.String(), "Room 1", description, "u1", nil, fixedTime, nil))
	mock.ExpectQuery(`FROM locations WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(locationCols).AddRow(id.String(), "Room 1", description, "u1", nil, fixedTime, nil))

	created, err := repo.Create(context.Background(), model.CreateLocationInput{Name: "Room 1", Description: &description, CreatedBy: "u1"})
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLocationRepository(db)
	id := uuid.New()
	name, description := "Room 2", "First floor"

	mock.ExpectQuery(`UPDATE locations SET name = \$1, description = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(name, description, id).
		WillReturnRows(sqlmock.NewRows(locationCols).AddRow(id.String(), name, description, "u1", nil, fixedTime, fixedTime))

	location, err := repo.Update(context.Background(), id, model.UpdateLocationInput{Name: &name, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "Room 2", location.Name)
	assert.Equal(t, "First floor", *location.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository_Delete_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLocationRepository(db)

	mock.ExpectExec(`DELETE FROM locations`).WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestLocationRepository_List_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLocationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM locations ORDER BY`).WithArgs(10, 0).WillReturnRows(sqlmock.NewRows(locationCols))
	mock.ExpectCommit()

	page, err := repo.List(context.Background(), model.PaginationParams{})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.Total)
}
