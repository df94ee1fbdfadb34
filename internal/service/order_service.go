package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/repository"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type OrderService struct {
	orders   *repository.OrderRepository
	products *repository.ProductRepository
	carts    *repository.CartRepository
}

func NewOrderService(orders *repository.OrderRepository, products *repository.ProductRepository, carts *repository.CartRepository) *OrderService {
	return &OrderService{orders: orders, products: products, carts: carts}
}

// Checkout snapshots prices, decrements stock and creates the order in one
// transaction, then clears the user's cart.
func (s *OrderService) Checkout(ctx context.Context, userID string, req model.CheckoutRequest) (model.Order, error) {
	if len(req.Items) == 0 {
		return model.Order{}, apierror.BadRequest("order must contain at least one item", "")
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return model.Order{}, apierror.BadRequest("shippingAddress is required", "")
	}

	now := time.Now().UTC()
	order := model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          model.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := s.orders.Pool().Begin(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, line := range req.Items {
		if line.Quantity < 1 {
			return model.Order{}, apierror.BadRequest("item quantity must be at least 1", line.ProductID)
		}

		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return model.Order{}, err
		}

		if err := s.products.AdjustStock(ctx, tx, product.ID, -line.Quantity); err != nil {
			return model.Order{}, err
		}

		order.Items = append(order.Items, model.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
		})
		order.Total += product.Price * int64(line.Quantity)
	}

	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, fmt.Errorf("commit checkout: %w", err)
	}

	// Cart cleanup is best effort; the order already exists.
	_ = s.carts.ClearForUser(ctx, userID)

	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID string, page int, limit int) ([]model.Order, int, error) {
	page, limit = ClampPage(page, limit)
	return s.orders.List(ctx, userID, page, limit)
}

func (s *OrderService) Get(ctx context.Context, id string) (model.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// UpdateStatus enforces the forward-only lifecycle and restores stock when
// an order is cancelled.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return model.Order{}, apierror.BadRequest("invalid order status", status)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	if !model.StatusTransitionAllowed(order.Status, status) {
		return model.Order{}, apierror.BadRequest(
			fmt.Sprintf("cannot change status from %s to %s", order.Status, status), "")
	}

	if status == model.OrderStatusCancelled {
		tx, err := s.orders.Pool().Begin(ctx)
		if err != nil {
			return model.Order{}, fmt.Errorf("begin cancellation: %w", err)
		}
		defer tx.Rollback(ctx)

		for _, item := range order.Items {
			if err := s.products.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return model.Order{}, err
			}
		}
		if _, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			id, status); err != nil {
			return model.Order{}, fmt.Errorf("cancel order: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return model.Order{}, fmt.Errorf("commit cancellation: %w", err)
		}
	} else if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return model.Order{}, err
	}

	order.Status = status
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}
