package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
)

type fakeOrderService struct {
	order          model.Order
	err            error
	listedForUser  string
	statusUpdates  int
	checkoutCalled bool
}

func (f *fakeOrderService) Checkout(_ context.Context, userID string, _ model.CheckoutRequest) (model.Order, error) {
	f.checkoutCalled = true
	if f.err != nil {
		return model.Order{}, f.err
	}
	return model.Order{ID: "o1", UserID: userID, Status: model.OrderStatusPending}, nil
}

func (f *fakeOrderService) List(_ context.Context, userID string, _ int, _ int) ([]model.Order, int, error) {
	f.listedForUser = userID
	return []model.Order{f.order}, 1, f.err
}

func (f *fakeOrderService) Get(_ context.Context, _ string) (model.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) UpdateStatus(_ context.Context, id string, status string) (model.Order, error) {
	f.statusUpdates++
	if f.err != nil {
		return model.Order{}, f.err
	}
	return model.Order{ID: id, Status: status}, nil
}

func (f *fakeOrderService) Delete(_ context.Context, _ string) error {
	return f.err
}

func withURLParam(req *http.Request, key string, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOrderHandlerList(t *testing.T) {
	t.Parallel()

	t.Run("customers only see their own orders", func(t *testing.T) {
		service := &fakeOrderService{}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?userId=somebody-else", nil)
		req.AddCookie(authCookie(t, session.CookieUser, "user"))
		rr := httptest.NewRecorder()
		h.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "u1", service.listedForUser)
	})

	t.Run("admins can filter by any user", func(t *testing.T) {
		service := &fakeOrderService{}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?userId=u9", nil)
		req.AddCookie(authCookie(t, session.CookieAdmin, "admin"))
		rr := httptest.NewRecorder()
		h.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "u9", service.listedForUser)
	})

	t.Run("anonymous callers are rejected", func(t *testing.T) {
		h := NewOrderHandler(&fakeOrderService{}, session.NewCookieWriter(session.JSONCodec{}))

		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestOrderHandlerGetOwnership(t *testing.T) {
	t.Parallel()

	t.Run("owner reads their order", func(t *testing.T) {
		service := &fakeOrderService{order: model.Order{ID: "o1", UserID: "u1"}}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/orders/o1", nil), "id", "o1")
		req.AddCookie(authCookie(t, session.CookieUser, "user"))
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("another customer is refused", func(t *testing.T) {
		service := &fakeOrderService{order: model.Order{ID: "o1", UserID: "someone-else"}}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/orders/o1", nil), "id", "o1")
		req.AddCookie(authCookie(t, session.CookieUser, "user"))
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		service := &fakeOrderService{order: model.Order{ID: "o1", UserID: "someone-else"}}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/orders/o1", nil), "id", "o1")
		req.AddCookie(authCookie(t, session.CookieAdmin, "admin"))
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestOrderHandlerUpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("non-admin cannot change status", func(t *testing.T) {
		service := &fakeOrderService{}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := withURLParam(
			httptest.NewRequest(http.MethodPut, "/api/v1/orders/o1/status", strings.NewReader(`{"status":"paid"}`)),
			"id", "o1")
		req.AddCookie(authCookie(t, session.CookieUser, "user"))
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
		require.Zero(t, service.statusUpdates)
	})

	t.Run("admin updates status", func(t *testing.T) {
		service := &fakeOrderService{}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := withURLParam(
			httptest.NewRequest(http.MethodPut, "/api/v1/orders/o1/status", strings.NewReader(`{"status":"paid"}`)),
			"id", "o1")
		req.AddCookie(authCookie(t, session.CookieAdmin, "admin"))
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, 1, service.statusUpdates)
	})
}

func TestOrderHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("checkout requires a session", func(t *testing.T) {
		service := &fakeOrderService{}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		rr := httptest.NewRecorder()
		h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`)))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.False(t, service.checkoutCalled)
	})

	t.Run("insufficient stock maps to a bad request envelope", func(t *testing.T) {
		service := &fakeOrderService{err: model.ErrInsufficientStock}
		h := NewOrderHandler(service, session.NewCookieWriter(session.JSONCodec{}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
			strings.NewReader(`{"items":[{"productId":"p1","quantity":99}]}`))
		req.AddCookie(authCookie(t, session.CookieUser, "user"))
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.False(t, envelope.Success)
		require.Equal(t, "Insufficient stock", envelope.Message)
	})
}
