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

type cartService interface {
	List(ctx context.Context, userID string) ([]model.CartItem, error)
	Add(ctx context.Context, userID string, req model.CartItemRequest) error
	UpdateQuantity(ctx context.Context, userID string, itemID string, quantity int) error
	Remove(ctx context.Context, userID string, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type CartHandler struct {
	service cartService
	cookies *session.CookieWriter
}

func NewCartHandler(service cartService, cookies *session.CookieWriter) *CartHandler {
	return &CartHandler{service: service, cookies: cookies}
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	items, err := h.service.List(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, nil)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := h.service.Add(r.Context(), actor.ID, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"added": true}, nil)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), actor.ID, chi.URLParam(r, "id"), payload.Quantity); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"updated": true}, nil)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Remove(r.Context(), actor.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"removed": true}, nil)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Clear(r.Context(), actor.ID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"cleared": true}, nil)
}
