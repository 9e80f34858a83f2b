package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/kiliniks-api/internal/model"
)

// Absent rows are reported as a nil result (or false for Delete), never as an error.
// Errors are reserved for storage failures.
type (
	AppointmentRepository interface {
		Create(ctx context.Context, input model.CreateAppointmentInput) (*model.Appointment, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, id uuid.UUID, input model.UpdateAppointmentInput) (*model.Appointment, error)
		Delete(ctx context.Context, id uuid.UUID) (bool, error)
		List(ctx context.Context) ([]*model.Appointment, error)
	}

	FlowRepository interface {
		Create(ctx context.Context, input model.CreateFlowInput) (*model.Flow, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Flow, error)
		Update(ctx context.Context, id uuid.UUID, input model.UpdateFlowInput) (*model.Flow, error)
		Delete(ctx context.Context, id uuid.UUID) (bool, error)
		List(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Flow], error)
	}

	LocationRepository interface {
		Create(ctx context.Context, input model.CreateLocationInput) (*model.Location, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Location, error)
		Update(ctx context.Context, id uuid.UUID, input model.UpdateLocationInput) (*model.Location, error)
		Delete(ctx context.Context, id uuid.UUID) (bool, error)
		List(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Location], error)
	}

	// StageRepository persists the stage aggregate: the stage row, its sales
	// items and its location links are always written and read as one unit.
	StageRepository interface {
		Create(ctx context.Context, input model.CreateStageInput) (*model.Stage, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Stage, error)
		Update(ctx context.Context, id uuid.UUID, input model.UpdateStageInput) (*model.Stage, error)
		Delete(ctx context.Context, id uuid.UUID) (bool, error)
		ListByFlow(ctx context.Context, flowID uuid.UUID) ([]*model.Stage, error)
	}
)

// IDGenerator produces identifiers for new rows.
type IDGenerator func() uuid.UUID
