package shopping

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		GetCartRecipes(ctx context.Context, userID string) ([]CartRecipe, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

func (r *shoppingRepository) GetCartRecipes(ctx context.Context, userID string) ([]CartRecipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Joins("JOIN recipe_relations ON recipe_relations.recipe_id = recipes.id").
		Where("recipe_relations.user_id = ? AND recipe_relations.kind = ?", userID, entities.RelationShoppingCart).
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	cart := make([]CartRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		items := make([]domain.ShoppingItem, 0, len(recipe.Ingredients))
		for _, ri := range recipe.Ingredients {
			if ri.Ingredient == nil {
				continue
			}
			items = append(items, domain.ShoppingItem{
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          int64(ri.Amount),
			})
		}
		cart = append(cart, CartRecipe{Name: recipe.Name, Ingredients: items})
	}

	return cart, nil
}
