package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type productService interface {
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)
	Get(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, req model.ProductRequest) (model.Product, error)
	Update(ctx context.Context, id string, req model.ProductRequest) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	service productService
	cookies *session.CookieWriter
}

func NewProductHandler(service productService, cookies *session.CookieWriter) *ProductHandler {
	return &ProductHandler{service: service, cookies: cookies}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := model.ProductFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
		Page:     page,
		Limit:    limit,
	}

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, products, model.NewPagination(page, limit, total))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, product, nil)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if _, err := requireAdmin(r, h.cookies); err != nil {
		writeError(w, err)
		return
	}

	var payload model.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	product, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, product, nil)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if _, err := requireAdmin(r, h.cookies); err != nil {
		writeError(w, err)
		return
	}

	var payload model.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, product, nil)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := requireAdmin(r, h.cookies); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
