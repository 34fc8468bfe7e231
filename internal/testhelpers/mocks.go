package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/service"
)

// MockLabelExtractor implements service.LabelExtractor for testing.
type MockLabelExtractor struct {
	mock.Mock
}

func (m *MockLabelExtractor) Extract(ctx context.Context, image []byte) ([]string, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRecipeComposer implements service.RecipeComposer for testing.
type MockRecipeComposer struct {
	mock.Mock
}

func (m *MockRecipeComposer) Compose(ctx context.Context, labels []string) (*service.ComposedRecipe, error) {
	args := m.Called(ctx, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ComposedRecipe), args.Error(1)
}

// MockImageStore implements service.ImageStore for testing.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}
