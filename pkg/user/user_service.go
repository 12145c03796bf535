package user

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/mapper"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	avatarFolder = "avatars"

	// enrichWorkers bounds the concurrent per-author queries of a subscriptions page.
	enrichWorkers = 4
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUsers(ctx context.Context, page domain.PaginationRequest, viewerID string) ([]domain.User, int64, error)
		GetUserByID(ctx context.Context, id string, viewerID string) (domain.User, error)
		Me(ctx context.Context, userID string) (domain.User, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (domain.User, error)
		SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error
		UpdateAvatar(ctx context.Context, req domain.AvatarRequest, userID string) (domain.AvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error

		Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (domain.SubscribedAuthor, error)
		Unsubscribe(ctx context.Context, authorID string, userID string) error
		GetSubscriptions(ctx context.Context, page domain.PaginationRequest, userID string, recipesLimit int) ([]domain.SubscribedAuthor, int64, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		subscriptions    relation.Toggler
		jwtService       jwt.JWTService
		s3               storage.AwsS3
		mailer           mailing.Mailer
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	subscriptions relation.Toggler,
	jwtService jwt.JWTService,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		subscriptions:    subscriptions,
		jwtService:       jwtService,
		s3:               s3,
		mailer:           mailer,
	}
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) isSubscribed(ctx context.Context, viewerID string, authorID uuid.UUID) (bool, error) {
	viewer, err := uuid.Parse(viewerID)
	if err != nil {
		return false, nil
	}
	return s.subscriptions.Exists(ctx, viewer, authorID)
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, domain.ErrEmailTaken
	}

	taken, err = s.userRepository.CheckUsernameExists(ctx, req.Username, uuid.Nil)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, domain.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, domain.ErrFailedHashPassword
	}

	now := time.Now()
	user := &entities.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, err
	}

	if err := s.mailer.SendWelcomeMail(user.Email, user.Username); err != nil {
		log.Errorf("failed to send welcome mail to %s: %v", user.Email, err)
	}

	return mapper.UserEntityToDomain(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), domain.RoleUser)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) GetUsers(ctx context.Context, page domain.PaginationRequest, viewerID string) ([]domain.User, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	subscribed := map[uuid.UUID]bool{}
	if viewer, err := uuid.Parse(viewerID); err == nil {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		subscribed, err = s.userRepository.GetSubscribedAmong(ctx, viewer, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	result := make([]domain.User, 0, len(users))
	for _, u := range users {
		result = append(result, mapper.UserEntityToDomain(u, subscribed[u.ID]))
	}
	return result, count, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string, viewerID string) (domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	subscribed, err := s.isSubscribed(ctx, viewerID, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	return mapper.UserEntityToDomain(user, subscribed), nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	return mapper.UserEntityToDomain(user, false), nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if req.Username != "" && req.Username != user.Username {
		taken, err := s.userRepository.CheckUsernameExists(ctx, req.Username, user.ID)
		if err != nil {
			return domain.User{}, err
		}
		if taken {
			return domain.User{}, domain.ErrUsernameTaken
		}
		user.Username = req.Username
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrUsernameTaken
		}
		return domain.User{}, err
	}
	return mapper.UserEntityToDomain(user, false), nil
}

func (s *userService) SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
		return domain.ErrWrongPassword
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return domain.ErrFailedHashPassword
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, hash)
}

func (s *userService) removeAvatarObject(link string) {
	if link == "" {
		return
	}
	if key := s.s3.GetObjectKeyFromLink(link); key != "" {
		if err := s.s3.DeleteFile(key); err != nil {
			log.Warnf("failed to delete avatar %s: %v", key, err)
		}
	}
}

func (s *userService) UpdateAvatar(ctx context.Context, req domain.AvatarRequest, userID string) (domain.AvatarResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	img, err := storage.DecodeBase64Image(req.Avatar)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	objectKey, err := s.s3.UploadFile(img.FileName(), img.Body, img.ContentType, avatarFolder)
	if err != nil {
		return domain.AvatarResponse{}, err
	}
	link := s.s3.GetPublicLinkKey(objectKey)

	if err := s.userRepository.UpdateAvatar(ctx, user.ID, link); err != nil {
		s.removeAvatarObject(link)
		return domain.AvatarResponse{}, err
	}
	s.removeAvatarObject(user.AvatarURL)

	return domain.AvatarResponse{Avatar: link}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdateAvatar(ctx, user.ID, ""); err != nil {
		return err
	}
	s.removeAvatarObject(user.AvatarURL)
	return nil
}

// subscribedAuthor builds one subscriptions entry: the author, up to recipesLimit of their
// newest recipes (all when recipesLimit <= 0) and their total recipe count.
func (s *userService) subscribedAuthor(ctx context.Context, author *entities.User, recipesLimit int) (domain.SubscribedAuthor, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.SubscribedAuthor{}, fmt.Errorf("load recipes of %s: %w", author.ID, err)
	}
	count, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscribedAuthor{}, fmt.Errorf("count recipes of %s: %w", author.ID, err)
	}

	short := make([]domain.ShortRecipe, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, mapper.RecipeEntityToShort(r))
	}

	return domain.SubscribedAuthor{
		User:         mapper.UserEntityToDomain(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

func (s *userService) Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (domain.SubscribedAuthor, error) {
	subscriber, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscribedAuthor{}, domain.ErrParseUUID
	}
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return domain.SubscribedAuthor{}, err
	}
	if author.ID == subscriber {
		return domain.SubscribedAuthor{}, domain.ErrSelfSubscription
	}

	if err := s.subscriptions.Add(ctx, subscriber, author.ID); err != nil {
		return domain.SubscribedAuthor{}, err
	}
	return s.subscribedAuthor(ctx, author, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, authorID string, userID string) error {
	subscriber, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return err
	}
	if author.ID == subscriber {
		return domain.ErrSelfSubscription
	}
	return s.subscriptions.Remove(ctx, subscriber, author.ID)
}

func (s *userService) GetSubscriptions(ctx context.Context, page domain.PaginationRequest, userID string, recipesLimit int) ([]domain.SubscribedAuthor, int64, error) {
	subscriber, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	authors, count, err := s.userRepository.GetSubscribedAuthors(ctx, subscriber, page)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.SubscribedAuthor, len(authors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for i, author := range authors {
		i, author := i, author
		g.Go(func() error {
			entry, err := s.subscribedAuthor(gctx, author, recipesLimit)
			if err != nil {
				return err
			}
			result[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return result, count, nil
}
