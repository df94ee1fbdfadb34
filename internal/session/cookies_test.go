package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCookieSet(t *testing.T) {
	t.Parallel()

	t.Run("admin fanout", func(t *testing.T) {
		set := CookieSet("admin", MaxAgeSession)
		require.Equal(t, []CookieSpec{
			{Name: "admin-auth-token", Path: "/Admin", MaxAge: 86400},
			{Name: "auth-token", Path: "/", MaxAge: 86400},
		}, set)
	})

	t.Run("user fanout", func(t *testing.T) {
		set := CookieSet("user", MaxAgeSession)
		require.Equal(t, []CookieSpec{
			{Name: "user-auth-token", Path: "/", MaxAge: 86400},
			{Name: "auth-token", Path: "/", MaxAge: 86400},
		}, set)
	})

	t.Run("lifetime is uniform across the set", func(t *testing.T) {
		for _, spec := range CookieSet("admin", MaxAgePersistent) {
			require.Equal(t, 2592000, spec.MaxAge)
		}
		for _, spec := range CookieSet("user", MaxAgePersistent) {
			require.Equal(t, 2592000, spec.MaxAge)
		}
	})
}

func TestCookieWriterWriteSet(t *testing.T) {
	t.Parallel()

	cw := NewCookieWriter(JSONCodec{})
	rec := Record{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "user"}

	rr := httptest.NewRecorder()
	require.NoError(t, cw.WriteSet(rr, rec, false))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	require.Contains(t, byName, CookieUser)
	require.Contains(t, byName, CookieLegacy)
	require.Equal(t, "/", byName[CookieUser].Path)
	require.Equal(t, 86400, byName[CookieUser].MaxAge)
	// Both cookies carry the same encoded payload.
	require.Equal(t, byName[CookieUser].Value, byName[CookieLegacy].Value)

	t.Run("written cookies read back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}

		got, present, err := cw.ReadCookie(req, CookieUser)
		require.NoError(t, err)
		require.True(t, present)
		require.Equal(t, rec, got)
	})
}

func TestCookieWriterClearForRole(t *testing.T) {
	t.Parallel()

	cw := NewCookieWriter(JSONCodec{})

	t.Run("admin logout leaves the user cookie alone", func(t *testing.T) {
		rr := httptest.NewRecorder()
		cw.ClearForRole(rr, "admin")

		cleared := map[string]bool{}
		for _, c := range rr.Result().Cookies() {
			require.Equal(t, -1, c.MaxAge)
			cleared[c.Name] = true
		}
		require.True(t, cleared[CookieAdmin])
		require.True(t, cleared[CookieLegacy])
		require.False(t, cleared[CookieUser])
	})

	t.Run("user logout leaves the admin cookie alone", func(t *testing.T) {
		rr := httptest.NewRecorder()
		cw.ClearForRole(rr, "user")

		cleared := map[string]bool{}
		for _, c := range rr.Result().Cookies() {
			cleared[c.Name] = true
		}
		require.True(t, cleared[CookieUser])
		require.True(t, cleared[CookieLegacy])
		require.False(t, cleared[CookieAdmin])
	})
}

func TestCookieWriterReadCookie(t *testing.T) {
	t.Parallel()

	cw := NewCookieWriter(JSONCodec{})

	t.Run("absent cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, present, err := cw.ReadCookie(req, CookieUser)
		require.NoError(t, err)
		require.False(t, present)
	})

	t.Run("undecodable value is present but malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieUser, Value: "garbage"})

		_, present, err := cw.ReadCookie(req, CookieUser)
		require.True(t, present)
		require.ErrorIs(t, err, ErrMalformedRecord)
	})
}
