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

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ProductService struct {
	products *repository.ProductRepository
}

func NewProductService(products *repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	filter.Page, filter.Limit = ClampPage(filter.Page, filter.Limit)
	return s.products.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id string) (model.Product, error) {
	if strings.TrimSpace(id) == "" {
		return model.Product{}, apierror.BadRequest("product id is required", "")
	}
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req model.ProductRequest) (model.Product, error) {
	if err := validateProduct(req); err != nil {
		return model.Product{}, err
	}

	now := time.Now().UTC()
	product := model.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req model.ProductRequest) (model.Product, error) {
	if err := validateProduct(req); err != nil {
		return model.Product{}, err
	}

	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = strings.TrimSpace(req.Description)
	existing.Category = strings.TrimSpace(req.Category)
	existing.Price = req.Price
	existing.Stock = req.Stock
	if strings.TrimSpace(req.ImageURL) != "" {
		existing.ImageURL = strings.TrimSpace(req.ImageURL)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, existing); err != nil {
		return model.Product{}, err
	}
	return existing, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func validateProduct(req model.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apierror.BadRequest("product name is required", "")
	}
	if req.Price < 0 {
		return apierror.BadRequest("price cannot be negative", "")
	}
	if req.Stock < 0 {
		return apierror.BadRequest("stock cannot be negative", "")
	}
	return nil
}

// ClampPage normalizes 1-indexed pagination input.
func ClampPage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
