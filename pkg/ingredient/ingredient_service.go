package ingredient

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"
)

const (
	searchCacheSize = 512
	searchCacheTTL  = time.Minute
)

type (
	IngredientService interface {
		Search(ctx context.Context, prefix string) ([]domain.Ingredient, error)
		GetIngredientByID(ctx context.Context, id string) (domain.Ingredient, error)
		Import(ctx context.Context, r io.Reader) (domain.ImportResult, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		validator            *validator.Validate
		// search results keyed by lower-cased prefix; entries expire so imports made by
		// another process show up without a restart
		cache *expirable.LRU[string, []domain.Ingredient]
	}
)

func NewIngredientService(ingredientRepository IngredientRepository, validator *validator.Validate) IngredientService {
	return newIngredientService(ingredientRepository, validator, searchCacheTTL)
}

func newIngredientService(ingredientRepository IngredientRepository, validator *validator.Validate, ttl time.Duration) *ingredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		validator:            validator,
		cache:                expirable.NewLRU[string, []domain.Ingredient](searchCacheSize, nil, ttl),
	}
}

func toIngredient(e *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              e.ID.String(),
		Name:            e.Name,
		MeasurementUnit: e.MeasurementUnit,
	}
}

func (s *ingredientService) Search(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	key := strings.ToLower(strings.TrimSpace(prefix))
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	rows, err := s.ingredientRepository.SearchByPrefix(ctx, key)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Ingredient, 0, len(rows))
	for _, row := range rows {
		result = append(result, toIngredient(row))
	}

	s.cache.Add(key, result)
	return result, nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id string) (domain.Ingredient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}

	row, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ingredient{}, domain.ErrIngredientNotFound
		}
		return domain.Ingredient{}, err
	}
	return toIngredient(row), nil
}

// Import loads a JSON array of {name, measurement_unit} records. Existing pairs are skipped.
func (s *ingredientService) Import(ctx context.Context, r io.Reader) (domain.ImportResult, error) {
	var records []domain.IngredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return domain.ImportResult{}, fmt.Errorf("decode ingredients: %w", err)
	}

	rows := make([]*entities.Ingredient, 0, len(records))
	for i, rec := range records {
		if err := s.validator.Struct(rec); err != nil {
			log.Warnf("skipping ingredient record %d: %v", i, err)
			continue
		}
		rows = append(rows, &entities.Ingredient{
			ID:              uuid.New(),
			Name:            strings.TrimSpace(rec.Name),
			MeasurementUnit: strings.TrimSpace(rec.MeasurementUnit),
		})
	}

	added, err := s.ingredientRepository.BulkInsertIgnoreConflicts(ctx, rows)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("insert ingredients: %w", err)
	}
	s.cache.Purge()

	total, err := s.ingredientRepository.Count(ctx)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("count ingredients: %w", err)
	}

	return domain.ImportResult{Added: added, Total: total}, nil
}
