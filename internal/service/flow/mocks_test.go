package flow

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/kiliniks-api/internal/model"
)

type MockFlowRepository struct {
	mock.Mock
}

func (m *MockFlowRepository) Create(ctx context.Context, input model.CreateFlowInput) (*model.Flow, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flow), args.Error(1)
}

func (m *MockFlowRepository) Get(ctx context.Context, id uuid.UUID) (*model.Flow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flow), args.Error(1)
}

func (m *MockFlowRepository) Update(ctx context.Context, id uuid.UUID, input model.UpdateFlowInput) (*model.Flow, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flow), args.Error(1)
}

func (m *MockFlowRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlowRepository) List(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Flow], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[*model.Flow]), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, input model.CreateLocationInput) (*model.Location, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Location), args.Error(1)
}

func (m *MockLocationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Location), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, id uuid.UUID, input model.UpdateLocationInput) (*model.Location, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Location), args.Error(1)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocationRepository) List(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Location], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[*model.Location]), args.Error(1)
}

type MockStageRepository struct {
	mock.Mock
}

func (m *MockStageRepository) Create(ctx context.Context, input model.CreateStageInput) (*model.Stage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stage), args.Error(1)
}

func (m *MockStageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Stage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stage), args.Error(1)
}

func (m *MockStageRepository) Update(ctx context.Context, id uuid.UUID, input model.UpdateStageInput) (*model.Stage, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stage), args.Error(1)
}

func (m *MockStageRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStageRepository) ListByFlow(ctx context.Context, flowID uuid.UUID) ([]*model.Stage, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Stage), args.Error(1)
}
