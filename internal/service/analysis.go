package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/models"
)

const analysisCacheTTL = 24 * time.Hour

// AnalysisService runs the image-analysis pipeline: extract labels, compose
// a recipe, persist exactly one record. Any failure before persistence leaves
// the store untouched. Composition results are cached in Redis keyed by the
// image hash, so a re-uploaded photo skips both backends but still creates a
// record for the caller.
type AnalysisService struct {
	extractor LabelExtractor
	composer  RecipeComposer
	images    ImageStore
	recipes   *RecipeService
	redis     *redis.Client
}

// NewAnalysisService wires the pipeline. images and redis may be nil, in
// which case source images are not persisted and results are not cached.
func NewAnalysisService(extractor LabelExtractor, composer RecipeComposer, images ImageStore, recipes *RecipeService, redisClient *redis.Client) *AnalysisService {
	return &AnalysisService{
		extractor: extractor,
		composer:  composer,
		images:    images,
		recipes:   recipes,
		redis:     redisClient,
	}
}

// imageHash identifies an uploaded image by the SHA-256 of its bytes.
func imageHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// AnalyzeImage runs the full pipeline for one uploaded image and returns the
// created recipe record.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, userID uuid.UUID, imageData []byte, contentType string) (*models.Recipe, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: no image uploaded", ErrInvalidInput)
	}

	hash := imageHash(imageData)

	composed, err := s.cachedResult(ctx, hash)
	if err != nil {
		return nil, err
	}
	if composed == nil {
		labels, err := s.extractor.Extract(ctx, imageData)
		if err != nil {
			return nil, err
		}
		log.Printf("[Analysis] extracted %d labels from image %s", len(labels), hash[:12])

		composed, err = s.composer.Compose(ctx, labels)
		if err != nil {
			return nil, err
		}

		s.cacheResult(ctx, hash, composed)
	}

	imageURL := ""
	if s.images != nil {
		url, err := s.images.Upload(ctx, imageData, contentType)
		if err != nil {
			// The image reference is optional on a record; the recipe
			// itself is still worth keeping.
			log.Printf("[Analysis] failed to store source image: %v", err)
		} else {
			imageURL = url
		}
	}

	recipe := &models.Recipe{
		Name:         composed.Title,
		Ingredients:  composed.Ingredients,
		Instructions: composed.Instructions,
		ImageURL:     imageURL,
		UserID:       userID,
	}
	return s.recipes.CreateRecipe(ctx, recipe)
}

// cachedResult looks up a previous composition for the same image. Cache
// errors other than a miss are logged and treated as a miss.
func (s *AnalysisService) cachedResult(ctx context.Context, hash string) (*ComposedRecipe, error) {
	if s.redis == nil {
		return nil, nil
	}

	data, err := s.redis.Get(ctx, cacheKey(hash)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Analysis] cache lookup failed: %v", err)
		}
		return nil, nil
	}

	var composed ComposedRecipe
	if err := json.Unmarshal(data, &composed); err != nil {
		log.Printf("[Analysis] dropping unreadable cache entry for %s: %v", hash[:12], err)
		return nil, nil
	}

	log.Printf("[Analysis] cache hit for image %s", hash[:12])
	return &composed, nil
}

func (s *AnalysisService) cacheResult(ctx context.Context, hash string, composed *ComposedRecipe) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(composed)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(hash), data, analysisCacheTTL).Err(); err != nil {
		log.Printf("[Analysis] failed to cache result for %s: %v", hash[:12], err)
	}
}

func cacheKey(hash string) string {
	return "analysis:result:" + hash
}
