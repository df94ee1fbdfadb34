package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type fakeAuthenticator struct {
	user  model.PublicUser
	users []model.PublicUser
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _ model.AuthRequest) (model.PublicUser, error) {
	return f.user, f.err
}

func (f *fakeAuthenticator) ListUsers(_ context.Context, _ int, _ int) ([]model.PublicUser, int, error) {
	return f.users, len(f.users), f.err
}

func newAuthHandler(auth authenticator) *AuthHandler {
	sessions := session.NewManager(session.NewMemoryStore(), session.NewMemoryStore(), session.JSONCodec{}, 0, 0, 5*time.Minute)
	return NewAuthHandler(auth, sessions)
}

func TestAuthHandlerAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("user login sets the customer cookie set and redirects home", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthenticator{
			user: model.PublicUser{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "user"},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth",
			strings.NewReader(`{"action":"login","email":"ana@example.com","password":"secret123"}`))
		rr := httptest.NewRecorder()
		h.Authenticate(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.True(t, envelope.Success)
		data := envelope.Data.(map[string]any)
		require.Equal(t, "/", data["redirect"])

		byName := map[string]*http.Cookie{}
		for _, c := range rr.Result().Cookies() {
			byName[c.Name] = c
		}
		require.Contains(t, byName, session.CookieUser)
		require.Contains(t, byName, session.CookieLegacy)
		require.NotContains(t, byName, session.CookieAdmin)
		require.Equal(t, session.MaxAgeSession, byName[session.CookieUser].MaxAge)
	})

	t.Run("admin login scopes the admin cookie and redirects to the admin section", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthenticator{
			user: model.PublicUser{ID: "a1", Name: "Root", Email: "root@example.com", Role: "admin"},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth",
			strings.NewReader(`{"action":"login","email":"root@example.com","password":"secret123"}`))
		rr := httptest.NewRecorder()
		h.Authenticate(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		data := decodeEnvelope(t, rr).Data.(map[string]any)
		require.Equal(t, "/Admin", data["redirect"])

		byName := map[string]*http.Cookie{}
		for _, c := range rr.Result().Cookies() {
			byName[c.Name] = c
		}
		require.Contains(t, byName, session.CookieAdmin)
		require.Equal(t, "/Admin", byName[session.CookieAdmin].Path)
	})

	t.Run("remember me stretches the cookie lifetime", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthenticator{
			user: model.PublicUser{ID: "u1", Role: "user"},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth",
			strings.NewReader(`{"action":"login","email":"a@b.c","password":"x","rememberMe":true}`))
		rr := httptest.NewRecorder()
		h.Authenticate(rr, req)

		for _, c := range rr.Result().Cookies() {
			if c.Name == session.CookieUser || c.Name == session.CookieLegacy {
				require.Equal(t, session.MaxAgePersistent, c.MaxAge)
			}
		}
	})

	t.Run("login timeout surfaces its own message", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthenticator{
			err: apierror.New("TIMEOUT", "login request timed out, please try again", "", http.StatusGatewayTimeout),
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth",
			strings.NewReader(`{"action":"login","email":"a@b.c","password":"x"}`))
		rr := httptest.NewRecorder()
		h.Authenticate(rr, req)

		require.Equal(t, http.StatusGatewayTimeout, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.False(t, envelope.Success)
		require.Equal(t, "login request timed out, please try again", envelope.Message)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthenticator{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		h.Authenticate(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandlerMe(t *testing.T) {
	t.Parallel()

	t.Run("without a session", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthenticator{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "sf-client-id", Value: "c1"})
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Equal(t, "not logged in", decodeEnvelope(t, rr).Message)
		// No logout runs on this path, so no cookies are expired.
		require.Empty(t, rr.Result().Cookies())
	})

	t.Run("missing ephemeral tier does not destroy a durable session", func(t *testing.T) {
		// A restart or an ephemeral TTL lapse can leave a valid remember-me
		// record in the durable tier with nothing in the ephemeral one. The
		// me endpoint must answer 401 without running the logout contract,
		// leaving the durable record intact for the next restore.
		durable := session.NewMemoryStore()
		sessions := session.NewManager(session.NewMemoryStore(), durable, session.JSONCodec{}, 0, 0, 5*time.Minute)

		establishRR := httptest.NewRecorder()
		rec := session.Record{ID: "u1", Name: "Ana", Role: "user"}
		require.NoError(t, sessions.Establish(context.Background(), establishRR, "c1", rec, true))

		// Fresh ephemeral tier, same durable tier.
		h := NewAuthHandler(&fakeAuthenticator{},
			session.NewManager(session.NewMemoryStore(), durable, session.JSONCodec{}, 0, 0, 5*time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "sf-client-id", Value: "c1"})
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Equal(t, "not logged in", decodeEnvelope(t, rr).Message)

		restoreReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/restore", nil)
		restoreReq.AddCookie(&http.Cookie{Name: "sf-client-id", Value: "c1"})
		restoreRR := httptest.NewRecorder()
		h.Restore(restoreRR, restoreReq)

		require.Equal(t, http.StatusOK, restoreRR.Code)
		data := decodeEnvelope(t, restoreRR).Data.(map[string]any)
		require.Equal(t, true, data["restored"])
		require.Equal(t, false, data["loggedOut"])
		user := data["user"].(map[string]any)
		require.Equal(t, "u1", user["id"])
	})

	t.Run("after login the session is returned", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthenticator{
			user: model.PublicUser{ID: "u1", Name: "Ana", Role: "user"},
		})

		loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth",
			strings.NewReader(`{"action":"login","email":"a@b.c","password":"x"}`))
		loginRR := httptest.NewRecorder()
		h.Authenticate(loginRR, loginReq)
		require.Equal(t, http.StatusOK, loginRR.Code)

		var clientID *http.Cookie
		for _, c := range loginRR.Result().Cookies() {
			if c.Name == "sf-client-id" {
				clientID = c
			}
		}
		require.NotNil(t, clientID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(clientID)
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		data := decodeEnvelope(t, rr).Data.(map[string]any)
		user := data["user"].(map[string]any)
		require.Equal(t, "u1", user["id"])
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(&fakeAuthenticator{
		user: model.PublicUser{ID: "u1", Role: "user"},
	})

	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth",
		strings.NewReader(`{"action":"login","email":"a@b.c","password":"x"}`))
	loginRR := httptest.NewRecorder()
	h.Authenticate(loginRR, loginReq)

	var clientID *http.Cookie
	for _, c := range loginRR.Result().Cookies() {
		if c.Name == "sf-client-id" {
			clientID = c
		}
	}
	require.NotNil(t, clientID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(clientID)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	expired := map[string]bool{}
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			expired[c.Name] = true
		}
	}
	require.True(t, expired[session.CookieUser])
	require.True(t, expired[session.CookieLegacy])
	require.False(t, expired[session.CookieAdmin])

	// The next restore sees the logout marker and stays logged out.
	restoreReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/restore", nil)
	restoreReq.AddCookie(clientID)
	restoreRR := httptest.NewRecorder()
	h.Restore(restoreRR, restoreReq)

	require.Equal(t, http.StatusOK, restoreRR.Code)
	data := decodeEnvelope(t, restoreRR).Data.(map[string]any)
	require.Equal(t, true, data["loggedOut"])
	require.Equal(t, false, data["restored"])
}

func TestAuthHandlerUsers(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(&fakeAuthenticator{
		users: []model.PublicUser{{ID: "u1", Role: "user"}, {ID: "a1", Role: "admin"}},
	})

	t.Run("admin lists accounts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.AddCookie(authCookie(t, session.CookieAdmin, "admin"))
		rr := httptest.NewRecorder()
		h.Users(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.True(t, envelope.Success)
		require.Len(t, envelope.Data.([]any), 2)
		require.NotNil(t, envelope.Pagination)
		require.Equal(t, 2, envelope.Pagination.Total)
	})

	t.Run("customer gets the fixed admin envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.AddCookie(authCookie(t, session.CookieUser, "user"))
		rr := httptest.NewRecorder()
		h.Users(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
		require.Equal(t, "Forbidden: admin access required", decodeEnvelope(t, rr).Message)
	})
}
