package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mediavault/domain/model"
)

type MockVideoCatalog struct {
	mock.Mock
}

func (m *MockVideoCatalog) Insert(ctx context.Context, rec model.VideoRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockVideoCatalog) List(ctx context.Context) ([]model.VideoRecord, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]model.VideoRecord)
	return recs, args.Error(1)
}

func (m *MockVideoCatalog) GetById(ctx context.Context, id string) (model.VideoRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(model.VideoRecord)
	return rec, args.Error(1)
}

func (m *MockVideoCatalog) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPlaybackPosition struct {
	mock.Mock
}

func (m *MockPlaybackPosition) UpdatePosition(ctx context.Context, id string, seconds float64) error {
	args := m.Called(ctx, id, seconds)
	return args.Error(0)
}

func (m *MockPlaybackPosition) GetPosition(ctx context.Context, id string) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPlaybackPosition) ResetPosition(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
