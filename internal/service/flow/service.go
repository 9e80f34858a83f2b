package flow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/kiliniks-api/internal/model"
	"github.com/jwalitptl/kiliniks-api/internal/repository"
	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
)

// Service exposes flows, locations and stages. It adds nothing to the
// repositories beyond turning absent results into NotFound errors.
type Service struct {
	flows     repository.FlowRepository
	locations repository.LocationRepository
	stages    repository.StageRepository
}

func NewService(flows repository.FlowRepository, locations repository.LocationRepository, stages repository.StageRepository) *Service {
	return &Service{
		flows:     flows,
		locations: locations,
		stages:    stages,
	}
}

// Flows

func (s *Service) CreateFlow(ctx context.Context, input model.CreateFlowInput) (*model.Flow, error) {
	flow, err := s.flows.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow: %w", err)
	}
	return flow, nil
}

func (s *Service) GetFlow(ctx context.Context, id uuid.UUID) (*model.Flow, error) {
	flow, err := s.flows.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get flow: %w", err)
	}
	if flow == nil {
		return nil, apperrors.NotFound("flow", nil)
	}
	return flow, nil
}

func (s *Service) UpdateFlow(ctx context.Context, id uuid.UUID, input model.UpdateFlowInput) (*model.Flow, error) {
	flow, err := s.flows.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update flow: %w", err)
	}
	if flow == nil {
		return nil, apperrors.NotFound("flow", nil)
	}
	return flow, nil
}

func (s *Service) ListFlows(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Flow], error) {
	page, err := s.flows.List(ctx, params.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	return page, nil
}

// DeleteFlow removes only the flow row. Stages that reference it are left in place.
func (s *Service) DeleteFlow(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.flows.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	if !deleted {
		return apperrors.NotFound("flow", nil)
	}
	return nil
}

// Locations

func (s *Service) CreateLocation(ctx context.Context, input model.CreateLocationInput) (*model.Location, error) {
	loc, err := s.locations.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return loc, nil
}

func (s *Service) GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	loc, err := s.locations.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if loc == nil {
		return nil, apperrors.NotFound("location", nil)
	}
	return loc, nil
}

func (s *Service) UpdateLocation(ctx context.Context, id uuid.UUID, input model.UpdateLocationInput) (*model.Location, error) {
	loc, err := s.locations.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	if loc == nil {
		return nil, apperrors.NotFound("location", nil)
	}
	return loc, nil
}

func (s *Service) ListLocations(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Location], error) {
	page, err := s.locations.List(ctx, params.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return page, nil
}

func (s *Service) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.locations.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if !deleted {
		return apperrors.NotFound("location", nil)
	}
	return nil
}

// Stages

func (s *Service) CreateStage(ctx context.Context, input model.CreateStageInput) (*model.Stage, error) {
	stage, err := s.stages.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}
	return stage, nil
}

func (s *Service) GetStage(ctx context.Context, id uuid.UUID) (*model.Stage, error) {
	stage, err := s.stages.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	if stage == nil {
		return nil, apperrors.NotFound("stage", nil)
	}
	return stage, nil
}

func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, input model.UpdateStageInput) (*model.Stage, error) {
	stage, err := s.stages.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	if stage == nil {
		return nil, apperrors.NotFound("stage", nil)
	}
	return stage, nil
}

func (s *Service) ListStagesByFlow(ctx context.Context, flowID uuid.UUID) ([]*model.Stage, error) {
	stages, err := s.stages.ListByFlow(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

func (s *Service) DeleteStage(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.stages.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}
	if !deleted {
		return apperrors.NotFound("stage", nil)
	}
	return nil
}
