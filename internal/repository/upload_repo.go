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

type UploadRepository struct {
	pool *pgxpool.Pool
}

func NewUploadRepository(pool *pgxpool.Pool) *UploadRepository {
	return &UploadRepository{pool: pool}
}

func (r *UploadRepository) Create(ctx context.Context, u model.Upload) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO uploads (id, object_key, thumbnail_key, url, thumbnail_url, mime_type, size, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Key, u.ThumbnailKey, u.URL, u.ThumbnailURL, u.MimeType, u.Size, u.UploadedBy, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	return nil
}

func (r *UploadRepository) FindByID(ctx context.Context, id string) (model.Upload, error) {
	var u model.Upload
	err := r.pool.QueryRow(ctx,
		`SELECT id, object_key, thumbnail_key, url, thumbnail_url, mime_type, size, uploaded_by, created_at
		 FROM uploads WHERE id = $1`, id).
		Scan(&u.ID, &u.Key, &u.ThumbnailKey, &u.URL, &u.ThumbnailURL, &u.MimeType, &u.Size, &u.UploadedBy, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Upload{}, apierror.NotFound("upload not found", id)
	}
	if err != nil {
		return model.Upload{}, fmt.Errorf("find upload by id: %w", err)
	}
	return u, nil
}

func (r *UploadRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("upload not found", id)
	}
	return nil
}
