package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/kiliniks-api/internal/repository"
	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	newID   repository.IDGenerator
	metrics *metrics.Metrics
}

type Option func(*BaseRepository)

// WithIDGenerator replaces uuid.New as the source of row identifiers
func WithIDGenerator(gen repository.IDGenerator) Option {
	return func(r *BaseRepository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *BaseRepository) {
		r.metrics = m
	}
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB, opts ...Option) BaseRepository {
	r := BaseRepository{db: db, newID: uuid.New}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

var readTxOptions = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}

// WithTx executes a function within a transaction. The transaction is rolled
// back when fn returns an error or panics, and committed otherwise.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return r.withTx(ctx, nil, fn)
}

// WithReadTx runs fn inside a read-only REPEATABLE READ transaction so that
// every query sees the same snapshot.
func (r *BaseRepository) WithReadTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return r.withTx(ctx, readTxOptions, fn)
}

func (r *BaseRepository) withTx(ctx context.Context, opts *sql.TxOptions, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *BaseRepository) observe(operation string, start time.Time, err error) {
	r.metrics.ObserveDB(operation, start, err)
}

// updateBuilder collects the SET clause of a partial update.
type updateBuilder struct {
	sets []string
	args []interface{}
}

func (b *updateBuilder) set(column string, value interface{}) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// build always refreshes updated_at, even when nothing else changes.
func (b *updateBuilder) build(table string, id uuid.UUID, returning string) (string, []interface{}) {
	sets := append(append([]string{}, b.sets...), "updated_at = NOW()")
	args := append(append([]interface{}{}, b.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(sets, ", "), len(args), returning)
	return query, args
}
