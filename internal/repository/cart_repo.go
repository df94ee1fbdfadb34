package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// ListByUser joins product details so the cart page renders without a
// second catalog lookup.
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.user_id, c.product_id, p.name, p.price, p.thumbnail_url,
		        c.quantity, c.created_at, c.updated_at
		 FROM cart_items c JOIN products p ON p.id = c.product_id
		 WHERE c.user_id = $1 ORDER BY c.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]model.CartItem, 0)
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.ThumbnailURL, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Upsert adds the quantity to an existing row for the same product or
// inserts a new one.
func (r *CartRepository) Upsert(ctx context.Context, item model.CartItem) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		item.ID, item.UserID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID string, itemID string, quantity int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3, updated_at = now()
		 WHERE id = $2 AND user_id = $1`, userID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("cart item not found", itemID)
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID string, itemID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $2 AND user_id = $1`, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("cart item not found", itemID)
	}
	return nil
}

func (r *CartRepository) ClearForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
