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

type reviewService interface {
	ListByProduct(ctx context.Context, productID string, page int, limit int) ([]model.Review, int, error)
	Create(ctx context.Context, userID string, req model.ReviewRequest) (model.Review, error)
	Update(ctx context.Context, actor model.PublicUser, id string, req model.ReviewRequest) (model.Review, error)
	Delete(ctx context.Context, actor model.PublicUser, id string) error
	Stats(ctx context.Context, productID string) (model.ReviewStats, error)
}

type ReviewHandler struct {
	service reviewService
	cookies *session.CookieWriter
}

func NewReviewHandler(service reviewService, cookies *session.CookieWriter) *ReviewHandler {
	return &ReviewHandler{service: service, cookies: cookies}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	reviews, total, err := h.service.ListByProduct(r.Context(), r.URL.Query().Get("productId"), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, reviews, model.NewPagination(page, limit, total))
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	review, err := h.service.Create(r.Context(), actor.ID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, review, nil)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	review, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, review, nil)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats, nil)
}
