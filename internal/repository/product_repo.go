package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, category, price, stock,
	image_url, thumbnail_url, rating, review_count, created_at, updated_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock,
		&p.ImageURL, &p.ThumbnailURL, &p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apierror.NotFound("product not found", id)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = append(where, fmt.Sprintf("lower(name) LIKE $%d", len(args)))
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.Sort {
	case "price_asc":
		orderBy = "price ASC"
	case "price_desc":
		orderBy = "price DESC"
	case "rating":
		orderBy = "rating DESC"
	case "name":
		orderBy = "name ASC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, clause, orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, description, category, price, stock,
		                       image_url, thumbnail_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Description, p.Category, p.Price, p.Stock,
		p.ImageURL, p.ThumbnailURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p model.Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, description = $3, category = $4, price = $5,
		        stock = $6, image_url = $7, thumbnail_url = $8, updated_at = $9
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Category, p.Price,
		p.Stock, p.ImageURL, p.ThumbnailURL, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("product not found", p.ID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("product not found", id)
	}
	return nil
}

// AdjustStock applies a delta inside the database so concurrent checkouts
// cannot oversell; a negative result violates the stock check constraint
// and the whole statement fails.
func (r *ProductRepository) AdjustStock(ctx context.Context, tx pgx.Tx, id string, delta int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now()
		 WHERE id = $1 AND stock + $2 >= 0`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientStock
	}
	return nil
}

// RefreshRating recomputes the denormalized rating fields from reviews.
func (r *ProductRepository) RefreshRating(ctx context.Context, productID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET
		    rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE product_id = $1), 0),
		    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
		    updated_at = now()
		 WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("refresh product rating: %w", err)
	}
	return nil
}
