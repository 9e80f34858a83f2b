package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains the audit fields shared by flows, locations and stages
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedBy string     `json:"createdBy" db:"created_by"`
	UpdatedBy *string    `json:"updatedBy,omitempty" db:"updated_by"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

const DefaultPageLimit = 10

// PaginationParams represents limit/offset pagination
type PaginationParams struct {
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`
}

// Normalize applies the defaults: limit 10 when unset, offset never negative.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Page is one slice of a paginated listing plus the unpaginated total.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}
