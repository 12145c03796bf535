package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/mapper"
	"Foodgram-Backend/pkg/relation"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error

		AddFavorite(ctx context.Context, recipeID string, userID string) (domain.ShortRecipe, error)
		RemoveFavorite(ctx context.Context, recipeID string, userID string) error
		AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.ShortRecipe, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error

		GetShortLink(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error)
		ResolveShortLink(ctx context.Context, recipeID string) (string, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		favorites            relation.Toggler
		shoppingCart         relation.Toggler
		subscriptions        relation.Toggler
		s3                   storage.AwsS3
		appURL               string
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	favorites relation.Toggler,
	shoppingCart relation.Toggler,
	subscriptions relation.Toggler,
	s3 storage.AwsS3,
	appURL string,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		favorites:            favorites,
		shoppingCart:         shoppingCart,
		subscriptions:        subscriptions,
		s3:                   s3,
		appURL:               strings.TrimRight(appURL, "/"),
	}
}

func parseID(id string, notFound error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound
	}
	return parsed, nil
}

func (s *recipeService) getRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	if _, err := parseID(recipeID, domain.ErrRecipeNotFound); err != nil {
		return nil, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// flagsFor resolves the viewer-dependent flags of every recipe with one relation query
// plus one subscription lookup per distinct author.
func (s *recipeService) flagsFor(ctx context.Context, recipes []*entities.Recipe, viewerID string) (map[uuid.UUID]domain.RecipeFlags, error) {
	flags := make(map[uuid.UUID]domain.RecipeFlags, len(recipes))
	viewer, err := uuid.Parse(viewerID)
	if err != nil {
		return flags, nil
	}

	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	kinds, err := s.recipeRepository.GetRelationKinds(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	subscribed := make(map[uuid.UUID]bool)
	for _, r := range recipes {
		isSub, seen := subscribed[r.AuthorID]
		if !seen {
			isSub, err = s.subscriptions.Exists(ctx, viewer, r.AuthorID)
			if err != nil {
				return nil, err
			}
			subscribed[r.AuthorID] = isSub
		}

		f := domain.RecipeFlags{IsAuthorSubscribed: isSub}
		for _, kind := range kinds[r.ID] {
			switch kind {
			case entities.RelationFavorite:
				f.IsFavorited = true
			case entities.RelationShoppingCart:
				f.IsInShoppingCart = true
			}
		}
		flags[r.ID] = f
	}
	return flags, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error) {
	if filter.AuthorID != "" {
		if _, err := uuid.Parse(filter.AuthorID); err != nil {
			return []domain.Recipe{}, 0, nil
		}
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	flags, err := s.flagsFor(ctx, recipes, filter.ViewerID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		result = append(result, mapper.RecipeEntityToDomain(r, flags[r.ID]))
	}
	return result, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.Recipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}

	flags, err := s.flagsFor(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.Recipe{}, err
	}
	return mapper.RecipeEntityToDomain(recipe, flags[recipe.ID]), nil
}

// buildIngredients checks the payload for repeated or unknown ingredient ids.
func (s *recipeService) buildIngredients(ctx context.Context, items []domain.RecipeIngredientRequest) ([]*entities.RecipeIngredient, error) {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	rows := make([]*entities.RecipeIngredient, 0, len(items))

	for _, item := range items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownIngredient, item.ID)
		}
		if _, dup := seen[id]; dup {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		rows = append(rows, &entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: id,
			Amount:       item.Amount,
		})
	}

	known, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(known) != len(ids) {
		found := make(map[uuid.UUID]struct{}, len(known))
		for _, k := range known {
			found[k.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownIngredient, id)
			}
		}
	}

	return rows, nil
}

func (s *recipeService) uploadImage(raw string) (string, error) {
	img, err := storage.DecodeBase64Image(raw)
	if err != nil {
		return "", err
	}
	objectKey, err := s.s3.UploadFile(img.FileName(), img.Body, img.ContentType, imageFolder)
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) deleteImage(link string) {
	if link == "" {
		return
	}
	if key := s.s3.GetObjectKeyFromLink(link); key != "" {
		if err := s.s3.DeleteFile(key); err != nil {
			log.Warnf("failed to delete recipe image %s: %v", key, err)
		}
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.Recipe, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Recipe{}, domain.ErrParseUUID
	}

	ingredients, err := s.buildIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.Recipe{}, err
	}

	imageURL, err := s.uploadImage(req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	now := time.Now()
	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, ingredients); err != nil {
		s.deleteImage(imageURL)
		return domain.Recipe{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.Recipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if recipe.AuthorID.String() != userID {
		return domain.Recipe{}, domain.ErrNotRecipeAuthor
	}

	ingredients, err := s.buildIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.Recipe{}, err
	}

	oldImage := recipe.ImageURL
	if req.Image != "" {
		imageURL, err := s.uploadImage(req.Image)
		if err != nil {
			return domain.Recipe{}, err
		}
		recipe.ImageURL = imageURL
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.UpdatedAt = time.Now()

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, ingredients); err != nil {
		if recipe.ImageURL != oldImage {
			s.deleteImage(recipe.ImageURL)
		}
		return domain.Recipe{}, err
	}
	if recipe.ImageURL != oldImage {
		s.deleteImage(oldImage)
	}

	return s.GetRecipeDetail(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	s.deleteImage(recipe.ImageURL)
	return nil
}

func (s *recipeService) addRelation(ctx context.Context, toggler relation.Toggler, recipeID, userID string) (domain.ShortRecipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.ShortRecipe{}, err
	}
	user, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShortRecipe{}, domain.ErrParseUUID
	}
	if err := toggler.Add(ctx, user, recipe.ID); err != nil {
		return domain.ShortRecipe{}, err
	}
	return mapper.RecipeEntityToShort(recipe), nil
}

func (s *recipeService) removeRelation(ctx context.Context, toggler relation.Toggler, recipeID, userID string) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	user, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return toggler.Remove(ctx, user, recipe.ID)
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) (domain.ShortRecipe, error) {
	return s.addRelation(ctx, s.favorites, recipeID, userID)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) error {
	return s.removeRelation(ctx, s.favorites, recipeID, userID)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.ShortRecipe, error) {
	return s.addRelation(ctx, s.shoppingCart, recipeID, userID)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error {
	return s.removeRelation(ctx, s.shoppingCart, recipeID, userID)
}

func (s *recipeService) GetShortLink(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.ShortLinkResponse{}, err
	}
	return domain.ShortLinkResponse{
		ShortLink: fmt.Sprintf("%s/s/%s/", s.appURL, recipe.ID),
	}, nil
}

// ResolveShortLink returns the canonical API path of the recipe.
func (s *recipeService) ResolveShortLink(ctx context.Context, recipeID string) (string, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/api/recipes/%s/", recipe.ID), nil
}
