package mapper

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
)

// UserEntityToDomain maps a User entity to its public representation.
func UserEntityToDomain(entity *entities.User, isSubscribed bool) domain.User {
	if entity == nil {
		return domain.User{}
	}
	return domain.User{
		ID:           entity.ID.String(),
		Email:        entity.Email,
		Username:     entity.Username,
		FirstName:    entity.FirstName,
		LastName:     entity.LastName,
		Avatar:       entity.AvatarURL,
		IsSubscribed: isSubscribed,
	}
}

// RecipeEntityToShort maps a Recipe entity to the short form used in toggles and subscriptions.
func RecipeEntityToShort(entity *entities.Recipe) domain.ShortRecipe {
	return domain.ShortRecipe{
		ID:          entity.ID.String(),
		Name:        entity.Name,
		Image:       entity.ImageURL,
		CookingTime: entity.CookingTime,
	}
}

// RecipeIngredientsToDomain maps the join rows of a recipe, which must have Ingredient preloaded.
func RecipeIngredientsToDomain(rows []*entities.RecipeIngredient) []domain.RecipeIngredient {
	result := make([]domain.RecipeIngredient, 0, len(rows))
	for _, row := range rows {
		ri := domain.RecipeIngredient{
			ID:     row.IngredientID.String(),
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			ri.Name = row.Ingredient.Name
			ri.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		result = append(result, ri)
	}
	return result
}

// RecipeEntityToDomain maps a Recipe entity with its Author and Ingredients preloaded.
func RecipeEntityToDomain(entity *entities.Recipe, flags domain.RecipeFlags) domain.Recipe {
	return domain.Recipe{
		ID:               entity.ID.String(),
		Name:             entity.Name,
		Text:             entity.Text,
		Image:            entity.ImageURL,
		Author:           UserEntityToDomain(entity.Author, flags.IsAuthorSubscribed),
		CookingTime:      entity.CookingTime,
		Ingredients:      RecipeIngredientsToDomain(entity.Ingredients),
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		CreatedAt:        entity.CreatedAt,
	}
}
