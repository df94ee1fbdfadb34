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

type orderService interface {
	Checkout(ctx context.Context, userID string, req model.CheckoutRequest) (model.Order, error)
	List(ctx context.Context, userID string, page int, limit int) ([]model.Order, int, error)
	Get(ctx context.Context, id string) (model.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (model.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrderHandler struct {
	service orderService
	cookies *session.CookieWriter
}

func NewOrderHandler(service orderService, cookies *session.CookieWriter) *OrderHandler {
	return &OrderHandler{service: service, cookies: cookies}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	order, err := h.service.Checkout(r.Context(), actor.ID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, order, nil)
}

// List returns the caller's own orders; admins see every order.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	page, limit := pageParams(r)

	filterUser := actor.ID
	if actor.Role == model.RoleAdmin {
		filterUser = r.URL.Query().Get("userId")
	}

	orders, total, err := h.service.List(r.Context(), filterUser, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, orders, model.NewPagination(page, limit, total))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r, h.cookies)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	order, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if order.UserID != actor.ID && actor.Role != model.RoleAdmin {
		writeError(w, apierror.Forbidden("Forbidden: admin access required"))
		return
	}

	writeSuccess(w, http.StatusOK, order, nil)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if _, err := requireAdmin(r, h.cookies); err != nil {
		writeError(w, err)
		return
	}

	var payload model.OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, order, nil)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
