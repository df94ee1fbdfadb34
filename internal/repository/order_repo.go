package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Pool exposes the underlying pool for callers that coordinate a
// transaction across repositories (checkout).
func (r *OrderRepository) Pool() *pgxpool.Pool {
	return r.pool
}

func (r *OrderRepository) CreateTx(ctx context.Context, tx pgx.Tx, o model.Order) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, status, total, shipping_address, payment_method, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.UserID, o.Status, o.Total, o.ShippingAddress, o.PaymentMethod, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	for _, item := range o.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, product_name, unit_price, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (model.Order, error) {
	var o model.Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, status, total, shipping_address, payment_method, created_at, updated_at
		 FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.ShippingAddress, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Order{}, apierror.NotFound("order not found", id)
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("find order by id: %w", err)
	}

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	o.Items = items
	return o, nil
}

// List returns orders newest-first, optionally filtered to one user.
func (r *OrderRepository) List(ctx context.Context, userID string, page int, limit int) ([]model.Order, int, error) {
	where := ""
	args := []any{}
	if userID != "" {
		where = " WHERE user_id = $1"
		args = append(args, userID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		`SELECT id, user_id, status, total, shipping_address, payment_method, created_at, updated_at
		 FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.ShippingAddress,
			&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}
	return orders, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("order not found", id)
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("order not found", id)
	}
	return nil
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, product_name, unit_price, quantity
		 FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
