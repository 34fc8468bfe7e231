package service

import "context"

// LabelExtractor produces ordered food labels for an image. The ordering
// reflects the backing model's ranking and is not guaranteed stable across
// implementations; callers must not rely on it.
type LabelExtractor interface {
	Extract(ctx context.Context, image []byte) ([]string, error)
}

// RecipeComposer turns a label set into a structured recipe.
type RecipeComposer interface {
	Compose(ctx context.Context, labels []string) (*ComposedRecipe, error)
}

// ImageStore persists raw image bytes and returns a stable reference.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// ComposedRecipe is the single stable return shape of a composer: a title
// plus separate ingredient and step blocks, either of which may be empty if
// the backend omitted content past the markers.
type ComposedRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}
