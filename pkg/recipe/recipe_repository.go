package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const relationExists = "EXISTS (SELECT 1 FROM recipe_relations rr WHERE rr.recipe_id = recipes.id AND rr.user_id = ? AND rr.kind = ?)"

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
		GetRelationKinds(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID][]entities.RelationKind, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients", "Relations", "Author").Create(recipe).Error; err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, ingredients)
	})
}

// UpdateRecipe saves the recipe fields and replaces its ingredient list in one transaction.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).
			Select("name", "text", "image_url", "cooking_time", "updated_at").
			Updates(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, ingredients)
	})
}

func insertIngredients(tx *gorm.DB, recipeID uuid.UUID, ingredients []*entities.RecipeIngredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	for _, ri := range ingredients {
		ri.RecipeID = recipeID
		if ri.ID == uuid.Nil {
			ri.ID = uuid.New()
		}
	}
	return tx.Omit("Recipe", "Ingredient").Create(&ingredients).Error
}

// DeleteRecipe removes the recipe; ingredient rows, favorites and cart entries go with it
// through ON DELETE CASCADE.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(recipeFilterScope(filter)).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(recipeFilterScope(filter)).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at desc").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// recipeFilterScope applies the author and relation filters; relation filters need a viewer.
func recipeFilterScope(filter domain.RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID != "" {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if filter.ViewerID != "" {
			if filter.IsFavorited {
				db = db.Where(relationExists, filter.ViewerID, entities.RelationFavorite)
			}
			if filter.IsInShoppingCart {
				db = db.Where(relationExists, filter.ViewerID, entities.RelationShoppingCart)
			}
		}
		return db
	}
}

// GetRecipesByAuthor returns the newest recipes of an author; limit <= 0 means no limit.
func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetRelationKinds reports, per recipe, which relations userID holds on it.
func (r *recipeRepository) GetRelationKinds(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID][]entities.RelationKind, error) {
	result := make(map[uuid.UUID][]entities.RelationKind)
	if len(recipeIDs) == 0 {
		return result, nil
	}

	var rows []entities.RecipeRelation
	if err := r.db.WithContext(ctx).
		Select("recipe_id", "kind").
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.RecipeID] = append(result[row.RecipeID], row.Kind)
	}
	return result, nil
}
