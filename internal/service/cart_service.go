package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/repository"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type CartService struct {
	carts    *repository.CartRepository
	products *repository.ProductRepository
}

func NewCartService(carts *repository.CartRepository, products *repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) List(ctx context.Context, userID string) ([]model.CartItem, error) {
	return s.carts.ListByUser(ctx, userID)
}

// Add puts a product in the cart, clamping the quantity to available
// stock.
func (s *CartService) Add(ctx context.Context, userID string, req model.CartItemRequest) error {
	if strings.TrimSpace(req.ProductID) == "" {
		return apierror.BadRequest("productId is required", "")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if product.Stock == 0 {
		return model.ErrInsufficientStock
	}
	if req.Quantity > product.Stock {
		req.Quantity = product.Stock
	}

	now := time.Now().UTC()
	return s.carts.Upsert(ctx, model.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID string, quantity int) error {
	if quantity < 1 {
		return apierror.BadRequest("quantity must be at least 1", "")
	}
	return s.carts.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *CartService) Remove(ctx context.Context, userID string, itemID string) error {
	return s.carts.Delete(ctx, userID, itemID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.ClearForUser(ctx, userID)
}
