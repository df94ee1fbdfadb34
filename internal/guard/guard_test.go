package guard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
)

func validCookie(role string) Cookie {
	return Cookie{State: Valid, Record: session.Record{ID: "u1", Name: "Test", Email: "t@example.com", Role: role}}
}

func TestDecideReverseGuard(t *testing.T) {
	t.Parallel()

	customerPaths := []string{"/", "/Detail/42", "/Review/42", "/Profile", "/view-order", "/cart", "/checkout"}

	t.Run("admin cookie on customer paths redirects to admin section", func(t *testing.T) {
		for _, path := range customerPaths {
			d := Decide(path, Cookies{Admin: validCookie("admin")})
			require.False(t, d.Allow, "path %s", path)
			require.Equal(t, "/Admin", d.Redirect, "path %s", path)
		}
	})

	t.Run("legacy admin cookie also triggers the reverse guard", func(t *testing.T) {
		d := Decide("/cart", Cookies{Legacy: validCookie("admin")})
		require.Equal(t, "/Admin", d.Redirect)
	})

	t.Run("user session on customer paths is allowed through to the protected checks", func(t *testing.T) {
		for _, path := range customerPaths {
			d := Decide(path, Cookies{User: validCookie("user"), Legacy: validCookie("user")})
			require.True(t, d.Allow, "path %s", path)
		}
	})

	t.Run("malformed admin cookie is ignored by the reverse guard", func(t *testing.T) {
		d := Decide("/", Cookies{Admin: Cookie{State: Malformed}})
		require.True(t, d.Allow)
	})

	t.Run("reverse guard wins before the protected-route check", func(t *testing.T) {
		// An admin with all three cookies on /checkout gets ejected rather
		// than passing the any-session rule.
		d := Decide("/checkout", Cookies{
			Admin:  validCookie("admin"),
			Legacy: validCookie("admin"),
		})
		require.Equal(t, "/Admin", d.Redirect)
	})
}

func TestDecideAdminArea(t *testing.T) {
	t.Parallel()

	t.Run("no cookie redirects to login", func(t *testing.T) {
		d := Decide("/Admin", Cookies{})
		require.Equal(t, "/Login", d.Redirect)
	})

	t.Run("malformed admin cookie redirects to login", func(t *testing.T) {
		d := Decide("/Admin/products", Cookies{Admin: Cookie{State: Malformed}})
		require.Equal(t, "/Login", d.Redirect)
	})

	t.Run("user role session is sent home", func(t *testing.T) {
		d := Decide("/Admin", Cookies{Admin: validCookie("user")})
		require.Equal(t, "/", d.Redirect)

		d = Decide("/Admin", Cookies{Legacy: validCookie("user")})
		require.Equal(t, "/", d.Redirect)
	})

	t.Run("admin session is allowed", func(t *testing.T) {
		require.True(t, Decide("/Admin", Cookies{Admin: validCookie("admin")}).Allow)
		require.True(t, Decide("/Admin/orders", Cookies{Legacy: validCookie("admin")}).Allow)
	})

	t.Run("malformed admin cookie is not rescued by a valid legacy cookie", func(t *testing.T) {
		d := Decide("/Admin", Cookies{
			Admin:  Cookie{State: Malformed},
			Legacy: validCookie("admin"),
		})
		require.Equal(t, "/Login", d.Redirect)
	})
}

func TestDecideProtectedCustomerRoutes(t *testing.T) {
	t.Parallel()

	t.Run("no session redirects to login", func(t *testing.T) {
		require.Equal(t, "/Login", Decide("/cart", Cookies{}).Redirect)
		require.Equal(t, "/Login", Decide("/checkout", Cookies{}).Redirect)
	})

	t.Run("malformed cookie redirects to login", func(t *testing.T) {
		d := Decide("/cart", Cookies{User: Cookie{State: Malformed}})
		require.Equal(t, "/Login", d.Redirect)
	})

	t.Run("any valid session passes without a role check", func(t *testing.T) {
		require.True(t, Decide("/cart", Cookies{User: validCookie("user")}).Allow)
		require.True(t, Decide("/checkout", Cookies{Legacy: validCookie("user")}).Allow)
	})
}

func TestDecideFallthrough(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/Login", "/Register", "/about", "/Detail/1"} {
		require.True(t, Decide(path, Cookies{}).Allow, "path %s", path)
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	cookies := session.NewCookieWriter(session.JSONCodec{})
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := Middleware(cookies)(next)

	encode := func(t *testing.T, rec session.Record) string {
		t.Helper()
		raw, err := json.Marshal(rec)
		require.NoError(t, err)
		return url.QueryEscape(string(raw))
	}

	t.Run("api paths are never guarded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("admin page without session redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/Admin", nil)
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, "/Login", rr.Header().Get("Location"))
	})

	t.Run("admin session on the home page is ejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{
			Name:  session.CookieLegacy,
			Value: encode(t, session.Record{ID: "a1", Role: "admin"}),
		})
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, "/Admin", rr.Header().Get("Location"))
	})

	t.Run("malformed cookie on a protected page redirects without panicking", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieLegacy, Value: "not-json"})
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, "/Login", rr.Header().Get("Location"))
	})
}
