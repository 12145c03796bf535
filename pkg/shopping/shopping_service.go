package shopping

import (
	"Foodgram-Backend/domain"
	"context"
	"fmt"
	"time"
)

type (
	ShoppingService interface {
		BuildReport(ctx context.Context, userID string) (domain.ShoppingReport, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		location           *time.Location
		now                func() time.Time
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository, location *time.Location) ShoppingService {
	if location == nil {
		location = time.Local
	}
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		location:           location,
		now:                time.Now,
	}
}

func (s *shoppingService) BuildReport(ctx context.Context, userID string) (domain.ShoppingReport, error) {
	cart, err := s.shoppingRepository.GetCartRecipes(ctx, userID)
	if err != nil {
		return domain.ShoppingReport{}, fmt.Errorf("load shopping cart: %w", err)
	}

	return domain.ShoppingReport{
		FileName: domain.ShoppingCartFileName,
		Content:  Render(Aggregate(cart), s.now().In(s.location)),
	}, nil
}
