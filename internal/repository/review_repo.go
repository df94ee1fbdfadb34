package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (model.Review, error) {
	var rev model.Review
	err := r.pool.QueryRow(ctx,
		`SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.created_at, r.updated_at
		 FROM reviews r JOIN users u ON u.id = r.user_id
		 WHERE r.id = $1`, id).
		Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.UserName, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Review{}, apierror.NotFound("review not found", id)
	}
	if err != nil {
		return model.Review{}, fmt.Errorf("find review by id: %w", err)
	}
	return rev, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, page int, limit int) ([]model.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.created_at, r.updated_at
		 FROM reviews r JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = $1
		 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.UserName,
			&rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, total, rows.Err()
}

func (r *ReviewRepository) Create(ctx context.Context, rev model.Review) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rev.ID, rev.ProductID, rev.UserID, rev.Rating, rev.Comment, rev.CreatedAt, rev.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrReviewExists
	}
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Update(ctx context.Context, rev model.Review) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET rating = $2, comment = $3, updated_at = $4 WHERE id = $1`,
		rev.ID, rev.Rating, rev.Comment, rev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("review not found", rev.ID)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("review not found", id)
	}
	return nil
}

// Stats aggregates ratings for one product, including a full 1..5
// histogram with zero-filled buckets.
func (r *ReviewRepository) Stats(ctx context.Context, productID string) (model.ReviewStats, error) {
	stats := model.ReviewStats{
		ProductID: productID,
		Histogram: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		 FROM reviews WHERE product_id = $1`, productID).
		Scan(&stats.Average, &stats.Count)
	if err != nil {
		return model.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE product_id = $1 GROUP BY rating`, productID)
	if err != nil {
		return model.ReviewStats{}, fmt.Errorf("review histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return model.ReviewStats{}, fmt.Errorf("scan histogram bucket: %w", err)
		}
		stats.Histogram[rating] = count
	}
	return stats, rows.Err()
}
