// Package relation implements the present/absent toggle shared by favorites,
// shopping-cart entries and subscriptions.
package relation

import (
	"Foodgram-Backend/domain"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// Store is a table of (actor, target) pairs with a uniqueness constraint on the pair.
	Store interface {
		Exists(ctx context.Context, actorID, targetID uuid.UUID) (bool, error)
		Create(ctx context.Context, actorID, targetID uuid.UUID) error
		Delete(ctx context.Context, actorID, targetID uuid.UUID) (int64, error)
	}

	Toggler interface {
		Add(ctx context.Context, actorID, targetID uuid.UUID) error
		Remove(ctx context.Context, actorID, targetID uuid.UUID) error
		Exists(ctx context.Context, actorID, targetID uuid.UUID) (bool, error)
	}

	toggler struct {
		store Store
	}
)

func NewToggler(store Store) Toggler {
	return &toggler{store: store}
}

// Add moves the pair from absent to present. A present pair yields domain.ErrRelationExists,
// including the case where a concurrent insert wins the race and trips the unique index.
func (t *toggler) Add(ctx context.Context, actorID, targetID uuid.UUID) error {
	exists, err := t.store.Exists(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("check relation: %w", err)
	}
	if exists {
		return domain.ErrRelationExists
	}

	if err := t.store.Create(ctx, actorID, targetID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrRelationExists
		}
		return fmt.Errorf("create relation: %w", err)
	}
	return nil
}

// Remove moves the pair from present to absent; an absent pair yields domain.ErrRelationNotFound.
func (t *toggler) Remove(ctx context.Context, actorID, targetID uuid.UUID) error {
	affected, err := t.store.Delete(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	if affected == 0 {
		return domain.ErrRelationNotFound
	}
	return nil
}

func (t *toggler) Exists(ctx context.Context, actorID, targetID uuid.UUID) (bool, error) {
	return t.store.Exists(ctx, actorID, targetID)
}
