package shopping

import (
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/dbtest"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingRepository_GetCartRecipesReadsCartOnly(t *testing.T) {
	db, rec := dbtest.Open(t)
	userID := uuid.NewString()

	cart, err := NewShoppingRepository(db).GetCartRecipes(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	stmts := rec.Find(`FROM "recipes"`, "JOIN recipe_relations ON recipe_relations.recipe_id = recipes.id")
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "recipe_relations.kind = $2")
	assert.Equal(t, []interface{}{userID, entities.RelationShoppingCart}, stmts[0].Vars)
	assert.NotContains(t, stmts[0].Vars, entities.RelationFavorite)
}
