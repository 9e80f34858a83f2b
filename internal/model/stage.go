package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is one step of a flow together with the sales items it owns and
// the locations it is linked to.
type Stage struct {
	Base
	FlowID      uuid.UUID   `json:"flowId" db:"flow_id"`
	Name        string      `json:"name" db:"name"`
	HasNotes    bool        `json:"hasNotes" db:"has_notes"`
	SoundURL    *string     `json:"soundUrl,omitempty" db:"sound_url"`
	SalesItems  []SalesItem `json:"salesItems" db:"-"`
	LocationIDs []uuid.UUID `json:"locationIds" db:"-"`
}

type SalesItem struct {
	ID                   uuid.UUID        `json:"id" db:"id"`
	StageID              uuid.UUID        `json:"stageId" db:"stage_id"`
	Name                 string           `json:"name" db:"name"`
	ItemType             *string          `json:"itemType,omitempty" db:"item_type"`
	Price                decimal.Decimal  `json:"price" db:"price"`
	CostPrice            *decimal.Decimal `json:"costPrice,omitempty" db:"cost_price"`
	DefaultQuantity      float64          `json:"defaultQuantity" db:"default_quantity"`
	DefaultPanelCategory *string          `json:"defaultPanelCategory,omitempty" db:"default_panel_category"`
	PanelCategories      RawJSON          `json:"panelCategories,omitempty" db:"panel_categories"`
}

// SalesItemInput defines a sales item to be written. ID is only honoured on
// stage updates, where it pins the identifier across the replace.
type SalesItemInput struct {
	ID                   *uuid.UUID       `json:"id,omitempty"`
	Name                 string           `json:"name" binding:"required"`
	ItemType             *string          `json:"itemType"`
	Price                *decimal.Decimal `json:"price" binding:"required"`
	CostPrice            *decimal.Decimal `json:"costPrice"`
	DefaultQuantity      *float64         `json:"defaultQuantity" binding:"required"`
	DefaultPanelCategory *string          `json:"defaultPanelCategory"`
	PanelCategories      RawJSON          `json:"panelCategories"`
}

type CreateStageInput struct {
	FlowID      uuid.UUID        `json:"flowId" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	HasNotes    bool             `json:"hasNotes"`
	SoundURL    *string          `json:"soundUrl"`
	SalesItems  []SalesItemInput `json:"salesItems" binding:"omitempty,dive"`
	LocationIDs []uuid.UUID      `json:"locationIds"`
	CreatedBy   string           `json:"-"`
	UpdatedBy   *string          `json:"-"`
}

// UpdateStageInput is a partial update. A nil collection leaves the stored one
// as it is; a non-nil one, even empty, replaces it entirely.
type UpdateStageInput struct {
	FlowID      *uuid.UUID        `json:"flowId"`
	Name        *string           `json:"name" binding:"omitempty,min=1"`
	HasNotes    *bool             `json:"hasNotes"`
	SoundURL    *string           `json:"soundUrl"`
	SalesItems  *[]SalesItemInput `json:"salesItems" binding:"omitempty,dive"`
	LocationIDs *[]uuid.UUID      `json:"locationIds"`
	UpdatedBy   *string           `json:"-"`
}
