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

type ReviewService struct {
	reviews  *repository.ReviewRepository
	products *repository.ProductRepository
}

func NewReviewService(reviews *repository.ReviewRepository, products *repository.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string, page int, limit int) ([]model.Review, int, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, 0, apierror.BadRequest("productId is required", "")
	}
	page, limit = ClampPage(page, limit)
	return s.reviews.ListByProduct(ctx, productID, page, limit)
}

func (s *ReviewService) Create(ctx context.Context, userID string, req model.ReviewRequest) (model.Review, error) {
	if err := validateReview(req); err != nil {
		return model.Review{}, err
	}

	// The product must exist before a review can attach to it.
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		return model.Review{}, err
	}

	now := time.Now().UTC()
	review := model.Review{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return model.Review{}, err
	}
	if err := s.products.RefreshRating(ctx, req.ProductID); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

// Update allows the review owner or an admin to edit rating and comment.
func (s *ReviewService) Update(ctx context.Context, actor model.PublicUser, id string, req model.ReviewRequest) (model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return model.Review{}, apierror.BadRequest("rating must be between 1 and 5", "")
	}

	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return model.Review{}, err
	}
	if review.UserID != actor.ID && actor.Role != model.RoleAdmin {
		return model.Review{}, apierror.Forbidden("you can only edit your own reviews")
	}

	review.Rating = req.Rating
	review.Comment = strings.TrimSpace(req.Comment)
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviews.Update(ctx, review); err != nil {
		return model.Review{}, err
	}
	if err := s.products.RefreshRating(ctx, review.ProductID); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor model.PublicUser, id string) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actor.ID && actor.Role != model.RoleAdmin {
		return apierror.Forbidden("you can only delete your own reviews")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	return s.products.RefreshRating(ctx, review.ProductID)
}

func (s *ReviewService) Stats(ctx context.Context, productID string) (model.ReviewStats, error) {
	if strings.TrimSpace(productID) == "" {
		return model.ReviewStats{}, apierror.BadRequest("productId is required", "")
	}
	return s.reviews.Stats(ctx, productID)
}

func validateReview(req model.ReviewRequest) error {
	if strings.TrimSpace(req.ProductID) == "" {
		return apierror.BadRequest("productId is required", "")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return apierror.BadRequest("rating must be between 1 and 5", "")
	}
	return nil
}
