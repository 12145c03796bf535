package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRecipeRepository struct {
	mock.Mock
}

func (m *mockRecipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient) error {
	return m.Called(ctx, recipe, ingredients).Error(0)
}

func (m *mockRecipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient) error {
	return m.Called(ctx, recipe, ingredients).Error(0)
}

func (m *mockRecipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRecipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, string) *entities.Recipe); ok {
		return fn(ctx, id), args.Error(1)
	}
	recipe, _ := args.Get(0).(*entities.Recipe)
	return recipe, args.Error(1)
}

func (m *mockRecipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]*entities.Recipe, int64, error) {
	args := m.Called(ctx, filter)
	recipes, _ := args.Get(0).([]*entities.Recipe)
	return recipes, args.Get(1).(int64), args.Error(2)
}

func (m *mockRecipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	recipes, _ := args.Get(0).([]*entities.Recipe)
	return recipes, args.Error(1)
}

func (m *mockRecipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecipeRepository) GetRelationKinds(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID][]entities.RelationKind, error) {
	args := m.Called(ctx, userID, recipeIDs)
	kinds, _ := args.Get(0).(map[uuid.UUID][]entities.RelationKind)
	return kinds, args.Error(1)
}

type mockIngredientRepository struct {
	mock.Mock
}

func (m *mockIngredientRepository) SearchByPrefix(ctx context.Context, prefix string) ([]*entities.Ingredient, error) {
	args := m.Called(ctx, prefix)
	rows, _ := args.Get(0).([]*entities.Ingredient)
	return rows, args.Error(1)
}

func (m *mockIngredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*entities.Ingredient)
	return row, args.Error(1)
}

func (m *mockIngredientRepository) GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Ingredient, error) {
	args := m.Called(ctx, ids)
	rows, _ := args.Get(0).([]*entities.Ingredient)
	return rows, args.Error(1)
}

func (m *mockIngredientRepository) BulkInsertIgnoreConflicts(ctx context.Context, rows []*entities.Ingredient) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockIngredientRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockToggler struct {
	mock.Mock
}

func (m *mockToggler) Add(ctx context.Context, actorID, targetID uuid.UUID) error {
	return m.Called(ctx, actorID, targetID).Error(0)
}

func (m *mockToggler) Remove(ctx context.Context, actorID, targetID uuid.UUID) error {
	return m.Called(ctx, actorID, targetID).Error(0)
}

func (m *mockToggler) Exists(ctx context.Context, actorID, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, actorID, targetID)
	return args.Bool(0), args.Error(1)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) UploadFile(fileName string, body []byte, contentType string, folder string) (string, error) {
	args := m.Called(fileName, body, contentType, folder)
	return args.String(0), args.Error(1)
}

func (m *mockS3) DeleteFile(objectKey string) error {
	return m.Called(objectKey).Error(0)
}

func (m *mockS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.example/" + objectKey
}

func (m *mockS3) GetObjectKeyFromLink(link string) string {
	const prefix = "https://bucket.example/"
	if len(link) > len(prefix) && link[:len(prefix)] == prefix {
		return link[len(prefix):]
	}
	return ""
}

type fixture struct {
	recipes     *mockRecipeRepository
	ingredients *mockIngredientRepository
	favorites   *mockToggler
	cart        *mockToggler
	subs        *mockToggler
	s3          *mockS3
	svc         RecipeService
}

func newFixture() *fixture {
	f := &fixture{
		recipes:     new(mockRecipeRepository),
		ingredients: new(mockIngredientRepository),
		favorites:   new(mockToggler),
		cart:        new(mockToggler),
		subs:        new(mockToggler),
		s3:          new(mockS3),
	}
	f.svc = NewRecipeService(f.recipes, f.ingredients, f.favorites, f.cart, f.subs, f.s3, "http://localhost:8000/")
	return f
}

func pngPayload() string {
	body := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(body)
}

func sampleRecipe(author *entities.User) *entities.Recipe {
	salt := &entities.Ingredient{ID: uuid.New(), Name: "salt", MeasurementUnit: "g"}
	id := uuid.New()
	return &entities.Recipe{
		ID:          id,
		AuthorID:    author.ID,
		Name:        "Soup",
		Text:        "Boil it",
		ImageURL:    "https://bucket.example/recipes/old.png",
		CookingTime: 15,
		CreatedAt:   time.Now(),
		Author:      author,
		Ingredients: []*entities.RecipeIngredient{
			{ID: uuid.New(), RecipeID: id, IngredientID: salt.ID, Amount: 5, Ingredient: salt},
		},
	}
}

func TestRecipeService_GetRecipeDetailFlags(t *testing.T) {
	f := newFixture()
	author := &entities.User{ID: uuid.New(), Username: "chef"}
	recipe := sampleRecipe(author)
	viewer := uuid.New()

	f.recipes.On("GetRecipeByID", mock.Anything, recipe.ID.String()).Return(recipe, nil)
	f.recipes.On("GetRelationKinds", mock.Anything, viewer, []uuid.UUID{recipe.ID}).
		Return(map[uuid.UUID][]entities.RelationKind{recipe.ID: {entities.RelationShoppingCart}}, nil)
	f.subs.On("Exists", mock.Anything, viewer, author.ID).Return(true, nil)

	got, err := f.svc.GetRecipeDetail(context.Background(), recipe.ID.String(), viewer.String())
	require.NoError(t, err)

	assert.False(t, got.IsFavorited)
	assert.True(t, got.IsInShoppingCart)
	assert.True(t, got.Author.IsSubscribed)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "salt", got.Ingredients[0].Name)
	assert.Equal(t, 5, got.Ingredients[0].Amount)
}

func TestRecipeService_GetRecipeDetailAnonymous(t *testing.T) {
	f := newFixture()
	recipe := sampleRecipe(&entities.User{ID: uuid.New()})
	f.recipes.On("GetRecipeByID", mock.Anything, recipe.ID.String()).Return(recipe, nil)

	got, err := f.svc.GetRecipeDetail(context.Background(), recipe.ID.String(), "")
	require.NoError(t, err)
	assert.False(t, got.IsFavorited)
	assert.False(t, got.Author.IsSubscribed)
	f.recipes.AssertNotCalled(t, "GetRelationKinds", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipeService_GetRecipeDetailNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetRecipeDetail(context.Background(), "42", "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	missing := uuid.NewString()
	f.recipes.On("GetRecipeByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = f.svc.GetRecipeDetail(context.Background(), missing, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestRecipeService_CreateRecipeRejectsIngredients(t *testing.T) {
	f := newFixture()
	salt := uuid.NewString()
	user := uuid.NewString()

	_, err := f.svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Soup", Text: "Boil", Image: pngPayload(), CookingTime: 1,
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt, Amount: 1}, {ID: salt, Amount: 2}},
	}, user)
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)

	f.ingredients.On("GetIngredientsByIDs", mock.Anything, mock.Anything).Return([]*entities.Ingredient{}, nil)
	_, err = f.svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Soup", Text: "Boil", Image: pngPayload(), CookingTime: 1,
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt, Amount: 1}},
	}, user)
	assert.ErrorIs(t, err, domain.ErrUnknownIngredient)

	f.recipes.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything, mock.Anything)
	f.s3.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	f := newFixture()
	author := &entities.User{ID: uuid.New(), Username: "chef"}
	salt := &entities.Ingredient{ID: uuid.New(), Name: "salt", MeasurementUnit: "g"}

	f.ingredients.On("GetIngredientsByIDs", mock.Anything, []uuid.UUID{salt.ID}).Return([]*entities.Ingredient{salt}, nil)
	f.s3.On("UploadFile", mock.Anything, mock.Anything, "image/png", imageFolder).Return("recipes/new.png", nil)

	var created *entities.Recipe
	f.recipes.On("CreateRecipe", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entities.Recipe)
			rows := args.Get(2).([]*entities.RecipeIngredient)
			created.Author = author
			created.Ingredients = rows
			rows[0].Ingredient = salt
		}).Return(nil)
	f.recipes.On("GetRecipeByID", mock.Anything, mock.Anything).Return(func(_ context.Context, _ string) *entities.Recipe {
		return created
	}, nil)
	f.recipes.On("GetRelationKinds", mock.Anything, author.ID, mock.Anything).Return(map[uuid.UUID][]entities.RelationKind{}, nil)
	f.subs.On("Exists", mock.Anything, author.ID, author.ID).Return(false, nil)

	got, err := f.svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Soup", Text: "Boil", Image: pngPayload(), CookingTime: 10,
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 3}},
	}, author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Soup", got.Name)
	assert.Equal(t, "https://bucket.example/recipes/new.png", got.Image)
	assert.Equal(t, author.ID, created.AuthorID)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, 3, got.Ingredients[0].Amount)
}

func TestRecipeService_CreateRecipeCleansUpImage(t *testing.T) {
	f := newFixture()
	salt := &entities.Ingredient{ID: uuid.New()}

	f.ingredients.On("GetIngredientsByIDs", mock.Anything, mock.Anything).Return([]*entities.Ingredient{salt}, nil)
	f.s3.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, imageFolder).Return("recipes/new.png", nil)
	f.s3.On("DeleteFile", "recipes/new.png").Return(nil).Once()
	f.recipes.On("CreateRecipe", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Soup", Text: "Boil", Image: pngPayload(), CookingTime: 10,
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 1}},
	}, uuid.NewString())
	assert.EqualError(t, err, "db down")
	f.s3.AssertExpectations(t)
}

func TestRecipeService_OnlyAuthorModifies(t *testing.T) {
	f := newFixture()
	recipe := sampleRecipe(&entities.User{ID: uuid.New()})
	stranger := uuid.NewString()
	f.recipes.On("GetRecipeByID", mock.Anything, recipe.ID.String()).Return(recipe, nil)

	err := f.svc.DeleteRecipe(context.Background(), recipe.ID.String(), stranger)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	_, err = f.svc.UpdateRecipe(context.Background(), recipe.ID.String(), domain.UpdateRecipeRequest{
		Name: "x", Text: "y", CookingTime: 1,
		Ingredients: []domain.RecipeIngredientRequest{{ID: uuid.NewString(), Amount: 1}},
	}, stranger)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	f.recipes.AssertNotCalled(t, "DeleteRecipe", mock.Anything, mock.Anything)
	f.recipes.AssertNotCalled(t, "UpdateRecipe", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipeService_DeleteRecipeRemovesImage(t *testing.T) {
	f := newFixture()
	author := &entities.User{ID: uuid.New()}
	recipe := sampleRecipe(author)
	f.recipes.On("GetRecipeByID", mock.Anything, recipe.ID.String()).Return(recipe, nil)
	f.recipes.On("DeleteRecipe", mock.Anything, recipe.ID).Return(nil)
	f.s3.On("DeleteFile", "recipes/old.png").Return(nil)

	require.NoError(t, f.svc.DeleteRecipe(context.Background(), recipe.ID.String(), author.ID.String()))
	f.recipes.AssertExpectations(t)
	f.s3.AssertExpectations(t)
}

func TestRecipeService_FavoriteToggle(t *testing.T) {
	f := newFixture()
	recipe := sampleRecipe(&entities.User{ID: uuid.New()})
	user := uuid.New()
	f.recipes.On("GetRecipeByID", mock.Anything, recipe.ID.String()).Return(recipe, nil)
	f.favorites.On("Add", mock.Anything, user, recipe.ID).Return(nil).Once()
	f.favorites.On("Add", mock.Anything, user, recipe.ID).Return(domain.ErrRelationExists).Once()
	f.favorites.On("Remove", mock.Anything, user, recipe.ID).Return(domain.ErrRelationNotFound)

	short, err := f.svc.AddFavorite(context.Background(), recipe.ID.String(), user.String())
	require.NoError(t, err)
	assert.Equal(t, domain.ShortRecipe{
		ID: recipe.ID.String(), Name: "Soup", Image: recipe.ImageURL, CookingTime: 15,
	}, short)

	_, err = f.svc.AddFavorite(context.Background(), recipe.ID.String(), user.String())
	assert.ErrorIs(t, err, domain.ErrRelationExists)

	err = f.svc.RemoveFavorite(context.Background(), recipe.ID.String(), user.String())
	assert.ErrorIs(t, err, domain.ErrRelationNotFound)

	f.cart.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipeService_ShoppingCartOnMissingRecipe(t *testing.T) {
	f := newFixture()
	missing := uuid.NewString()
	f.recipes.On("GetRecipeByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.AddToShoppingCart(context.Background(), missing, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	f.cart.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipeService_ShortLink(t *testing.T) {
	f := newFixture()
	recipe := sampleRecipe(&entities.User{ID: uuid.New()})
	f.recipes.On("GetRecipeByID", mock.Anything, recipe.ID.String()).Return(recipe, nil)

	link, err := f.svc.GetShortLink(context.Background(), recipe.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/s/"+recipe.ID.String()+"/", link.ShortLink)

	target, err := f.svc.ResolveShortLink(context.Background(), recipe.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "/api/recipes/"+recipe.ID.String()+"/", target)
}

func TestRecipeService_GetRecipesUnknownAuthor(t *testing.T) {
	f := newFixture()

	got, count, err := f.svc.GetRecipes(context.Background(), domain.RecipeFilter{AuthorID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, count)
	f.recipes.AssertNotCalled(t, "GetRecipes", mock.Anything, mock.Anything)
}
