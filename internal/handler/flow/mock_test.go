package flow

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/kiliniks-api/internal/model"
)

type MockService struct {
	mock.Mock
}

func result[T any](args mock.Arguments) (T, error) {
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockService) CreateFlow(ctx context.Context, input model.CreateFlowInput) (*model.Flow, error) {
	return result[*model.Flow](m.Called(ctx, input))
}

func (m *MockService) GetFlow(ctx context.Context, id uuid.UUID) (*model.Flow, error) {
	return result[*model.Flow](m.Called(ctx, id))
}

func (m *MockService) UpdateFlow(ctx context.Context, id uuid.UUID, input model.UpdateFlowInput) (*model.Flow, error) {
	return result[*model.Flow](m.Called(ctx, id, input))
}

func (m *MockService) ListFlows(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Flow], error) {
	return result[*model.Page[*model.Flow]](m.Called(ctx, params))
}

func (m *MockService) DeleteFlow(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) CreateLocation(ctx context.Context, input model.CreateLocationInput) (*model.Location, error) {
	return result[*model.Location](m.Called(ctx, input))
}

func (m *MockService) GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	return result[*model.Location](m.Called(ctx, id))
}

func (m *MockService) UpdateLocation(ctx context.Context, id uuid.UUID, input model.UpdateLocationInput) (*model.Location, error) {
	return result[*model.Location](m.Called(ctx, id, input))
}

func (m *MockService) ListLocations(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Location], error) {
	return result[*model.Page[*model.Location]](m.Called(ctx, params))
}

func (m *MockService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) CreateStage(ctx context.Context, input model.CreateStageInput) (*model.Stage, error) {
	return result[*model.Stage](m.Called(ctx, input))
}

func (m *MockService) GetStage(ctx context.Context, id uuid.UUID) (*model.Stage, error) {
	return result[*model.Stage](m.Called(ctx, id))
}

func (m *MockService) UpdateStage(ctx context.Context, id uuid.UUID, input model.UpdateStageInput) (*model.Stage, error) {
	return result[*model.Stage](m.Called(ctx, id, input))
}

func (m *MockService) ListStagesByFlow(ctx context.Context, flowID uuid.UUID) ([]*model.Stage, error) {
	return result[[]*model.Stage](m.Called(ctx, flowID))
}

func (m *MockService) DeleteStage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
