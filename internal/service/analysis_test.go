package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/models"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/service"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/testhelpers"
)

func recipeCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	return count
}

func TestAnalysisService_Success(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	extractor := new(testhelpers.MockLabelExtractor)
	composer := new(testhelpers.MockRecipeComposer)
	images := new(testhelpers.MockImageStore)
	svc := service.NewAnalysisService(extractor, composer, images, service.NewRecipeService(db), nil)

	imageData := []byte("fake image bytes")
	labels := []string{"tomato", "basil"}
	extractor.On("Extract", mock.Anything, imageData).Return(labels, nil)
	composer.On("Compose", mock.Anything, labels).Return(&service.ComposedRecipe{
		Title:        "Caprese Salad",
		Ingredients:  []string{"2 tomatoes", "1 bunch basil"},
		Instructions: []string{"1. Slice.", "2. Arrange."},
	}, nil)
	images.On("Upload", mock.Anything, imageData, "image/jpeg").
		Return("https://bucket.s3.amazonaws.com/recipe-images/x.jpg", nil)

	userID := uuid.New()
	recipe, err := svc.AnalyzeImage(context.Background(), userID, imageData, "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, "Caprese Salad", recipe.Name)
	assert.Equal(t, models.JSONBStringArray{"2 tomatoes", "1 bunch basil"}, recipe.Ingredients)
	assert.Equal(t, models.JSONBStringArray{"1. Slice.", "2. Arrange."}, recipe.Instructions)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipe-images/x.jpg", recipe.ImageURL)
	assert.Equal(t, userID, recipe.UserID)

	assert.EqualValues(t, 1, recipeCount(t, db))
	extractor.AssertExpectations(t)
	composer.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestAnalysisService_NoImage(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	extractor := new(testhelpers.MockLabelExtractor)
	composer := new(testhelpers.MockRecipeComposer)
	svc := service.NewAnalysisService(extractor, composer, nil, service.NewRecipeService(db), nil)

	_, err := svc.AnalyzeImage(context.Background(), uuid.New(), nil, "image/jpeg")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// No backend was called and nothing was persisted.
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything)
	assert.Zero(t, recipeCount(t, db))
}

func TestAnalysisService_ExtractorFailure(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	extractor := new(testhelpers.MockLabelExtractor)
	composer := new(testhelpers.MockRecipeComposer)
	svc := service.NewAnalysisService(extractor, composer, nil, service.NewRecipeService(db), nil)

	extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, service.ErrRecognition)

	_, err := svc.AnalyzeImage(context.Background(), uuid.New(), []byte("img"), "image/jpeg")
	assert.ErrorIs(t, err, service.ErrRecognition)

	composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything)
	assert.Zero(t, recipeCount(t, db))
}

func TestAnalysisService_ComposerFailure(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	extractor := new(testhelpers.MockLabelExtractor)
	composer := new(testhelpers.MockRecipeComposer)
	svc := service.NewAnalysisService(extractor, composer, nil, service.NewRecipeService(db), nil)

	extractor.On("Extract", mock.Anything, mock.Anything).Return([]string{"tomato"}, nil)
	composer.On("Compose", mock.Anything, []string{"tomato"}).Return(nil, service.ErrMalformedGeneration)

	_, err := svc.AnalyzeImage(context.Background(), uuid.New(), []byte("img"), "image/jpeg")
	assert.ErrorIs(t, err, service.ErrMalformedGeneration)
	assert.Zero(t, recipeCount(t, db))
}

func TestAnalysisService_ImageStoreFailureIsNotFatal(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	extractor := new(testhelpers.MockLabelExtractor)
	composer := new(testhelpers.MockRecipeComposer)
	images := new(testhelpers.MockImageStore)
	svc := service.NewAnalysisService(extractor, composer, images, service.NewRecipeService(db), nil)

	extractor.On("Extract", mock.Anything, mock.Anything).Return([]string{"tomato"}, nil)
	composer.On("Compose", mock.Anything, []string{"tomato"}).Return(&service.ComposedRecipe{
		Title:       "Tomato Salad",
		Ingredients: []string{"2 tomatoes"},
	}, nil)
	images.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unreachable"))

	recipe, err := svc.AnalyzeImage(context.Background(), uuid.New(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Empty(t, recipe.ImageURL)
	assert.EqualValues(t, 1, recipeCount(t, db))
}
