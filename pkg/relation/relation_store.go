package relation

import (
	"Foodgram-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	recipeRelationStore struct {
		db   *gorm.DB
		kind entities.RelationKind
	}

	subscriptionStore struct {
		db *gorm.DB
	}
)

// NewRecipeRelationStore stores (user, recipe) pairs of one kind in the recipe_relations table.
func NewRecipeRelationStore(db *gorm.DB, kind entities.RelationKind) Store {
	return &recipeRelationStore{db: db, kind: kind}
}

func (s *recipeRelationStore) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&entities.RecipeRelation{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, s.kind).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *recipeRelationStore) Create(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Create(&entities.RecipeRelation{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		Kind:      s.kind,
		CreatedAt: time.Now(),
	}).Error
}

func (s *recipeRelationStore) Delete(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, s.kind).
		Delete(&entities.RecipeRelation{})
	return res.RowsAffected, res.Error
}

// NewSubscriptionStore stores (subscriber, author) pairs in the subscriptions table.
func NewSubscriptionStore(db *gorm.DB) Store {
	return &subscriptionStore{db: db}
}

func (s *subscriptionStore) Exists(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *subscriptionStore) Create(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	return s.db.WithContext(ctx).Create(&entities.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		AuthorID:     authorID,
		CreatedAt:    time.Now(),
	}).Error
}

func (s *subscriptionStore) Delete(ctx context.Context, subscriberID, authorID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&entities.Subscription{})
	return res.RowsAffected, res.Error
}
