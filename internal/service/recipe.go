package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/models"
)

// RecipeUpdate carries the replacement fields for UpdateRecipe. Name and
// ingredients are always required together; instructions and the image
// reference are optional and left untouched when nil.
type RecipeUpdate struct {
	Name         string
	Ingredients  []string
	Instructions []string
	ImageURL     *string
}

// RecipeService handles recipe persistence, scoped to the owning user. A
// record owned by another user is indistinguishable from a nonexistent one:
// every lookup filters on user_id and reports ErrNotFound, never a
// permission error.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe persists a new recipe and assigns its id.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if recipe.Name == "" || len(recipe.Ingredients) == 0 {
		return nil, ErrInvalidInput
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by id for the given user.
func (s *RecipeService) GetRecipe(ctx context.Context, id, userID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces the updatable fields of a recipe owned by the user.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, update RecipeUpdate) (*models.Recipe, error) {
	if update.Name == "" || len(update.Ingredients) == 0 {
		return nil, ErrInvalidInput
	}

	recipe, err := s.GetRecipe(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	recipe.Name = update.Name
	recipe.Ingredients = update.Ingredients
	if update.Instructions != nil {
		recipe.Instructions = update.Instructions
	}
	if update.ImageURL != nil {
		recipe.ImageURL = *update.ImageURL
	}

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe permanently removes a recipe owned by the user. Deleting a
// missing or foreign record reports ErrNotFound; a repeated delete does too.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecipes returns all recipes owned by the user in insertion order.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}
