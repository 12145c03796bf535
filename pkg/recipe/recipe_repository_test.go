package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/dbtest"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fromRecipes = `FROM "recipes"`

func listRecipes(t *testing.T, filter domain.RecipeFilter) []dbtest.Statement {
	t.Helper()
	db, rec := dbtest.Open(t)
	_, _, err := NewRecipeRepository(db).GetRecipes(context.Background(), filter)
	require.NoError(t, err)

	stmts := rec.Find(fromRecipes)
	// count query plus page query
	require.Len(t, stmts, 2)
	return stmts
}

func TestRecipeRepository_ShoppingCartFilter(t *testing.T) {
	viewer := uuid.NewString()
	stmts := listRecipes(t, domain.RecipeFilter{
		PaginationRequest: domain.PaginationRequest{Page: 1, Limit: domain.DefaultPageSize},
		IsInShoppingCart:  true,
		ViewerID:          viewer,
	})

	for _, stmt := range stmts {
		assert.Contains(t, stmt.SQL, "EXISTS (SELECT 1 FROM recipe_relations rr")
		assert.Contains(t, stmt.Vars, viewer)
		assert.Contains(t, stmt.Vars, entities.RelationShoppingCart)
		assert.NotContains(t, stmt.Vars, entities.RelationFavorite)
	}
}

func TestRecipeRepository_FavoriteFilter(t *testing.T) {
	viewer := uuid.NewString()
	stmts := listRecipes(t, domain.RecipeFilter{
		PaginationRequest: domain.PaginationRequest{Page: 1, Limit: domain.DefaultPageSize},
		IsFavorited:       true,
		ViewerID:          viewer,
	})

	for _, stmt := range stmts {
		assert.Contains(t, stmt.SQL, "EXISTS")
		assert.Contains(t, stmt.Vars, viewer)
		assert.Contains(t, stmt.Vars, entities.RelationFavorite)
		assert.NotContains(t, stmt.Vars, entities.RelationShoppingCart)
	}
}

func TestRecipeRepository_BothRelationFilters(t *testing.T) {
	stmts := listRecipes(t, domain.RecipeFilter{
		PaginationRequest: domain.PaginationRequest{Page: 1, Limit: domain.DefaultPageSize},
		IsFavorited:       true,
		IsInShoppingCart:  true,
		ViewerID:          uuid.NewString(),
	})

	for _, stmt := range stmts {
		assert.Contains(t, stmt.Vars, entities.RelationFavorite)
		assert.Contains(t, stmt.Vars, entities.RelationShoppingCart)
	}
}

func TestRecipeRepository_AnonymousIgnoresRelationFilters(t *testing.T) {
	stmts := listRecipes(t, domain.RecipeFilter{
		PaginationRequest: domain.PaginationRequest{Page: 1, Limit: domain.DefaultPageSize},
		IsFavorited:       true,
		IsInShoppingCart:  true,
	})

	for _, stmt := range stmts {
		assert.NotContains(t, stmt.SQL, "EXISTS")
		assert.NotContains(t, stmt.Vars, entities.RelationFavorite)
		assert.NotContains(t, stmt.Vars, entities.RelationShoppingCart)
	}
}

func TestRecipeRepository_AuthorFilterAndPage(t *testing.T) {
	author := uuid.NewString()
	stmts := listRecipes(t, domain.RecipeFilter{
		PaginationRequest: domain.PaginationRequest{Page: 3, Limit: 6},
		AuthorID:          author,
	})

	count, page := stmts[0], stmts[1]
	assert.Contains(t, count.SQL, "count(*)")
	assert.Contains(t, count.SQL, "recipes.author_id = $1")
	assert.Equal(t, []interface{}{author}, count.Vars)

	assert.Contains(t, page.SQL, "ORDER BY recipes.created_at desc")
	assert.Contains(t, page.SQL, "LIMIT")
	assert.Contains(t, page.SQL, "OFFSET")
	assert.Equal(t, []interface{}{author, 6, 12}, page.Vars)
}

func TestRecipeRepository_GetRecipesByAuthorLimit(t *testing.T) {
	db, rec := dbtest.Open(t)
	repo := NewRecipeRepository(db)
	author := uuid.New()

	_, err := repo.GetRecipesByAuthor(context.Background(), author, 3)
	require.NoError(t, err)
	stmts := rec.Find(fromRecipes)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "ORDER BY created_at desc LIMIT")
	assert.Equal(t, []interface{}{author, 3}, stmts[0].Vars)

	rec.Reset()
	_, err = repo.GetRecipesByAuthor(context.Background(), author, 0)
	require.NoError(t, err)
	stmts = rec.Find(fromRecipes)
	require.Len(t, stmts, 1)
	assert.NotContains(t, stmts[0].SQL, "LIMIT")
	assert.Equal(t, []interface{}{author}, stmts[0].Vars)
}
