package guard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
)

// skipPrefixes are never guarded: API handlers do their own capability
// checks and the operational endpoints carry no session semantics.
var skipPrefixes = []string{"/api/", "/health", "/metrics", "/static/"}

// Middleware applies Decide to every page request before rendering.
func Middleware(cookies *session.CookieWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			parsed := FromRequest(r, cookies)
			decision := Decide(r.URL.Path, parsed)
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			http.Redirect(w, r, decision.Redirect, http.StatusFound)
		})
	}
}

// FromRequest parses the three auth cookies into guard input. Malformed
// payloads are logged once here; Decide treats them per its table.
func FromRequest(r *http.Request, cookies *session.CookieWriter) Cookies {
	return Cookies{
		Admin:  readOne(r, cookies, session.CookieAdmin),
		User:   readOne(r, cookies, session.CookieUser),
		Legacy: readOne(r, cookies, session.CookieLegacy),
	}
}

func readOne(r *http.Request, cookies *session.CookieWriter, name string) Cookie {
	rec, present, err := cookies.ReadCookie(r, name)
	if !present {
		return Cookie{State: Absent}
	}
	if err != nil {
		slog.Warn("malformed auth cookie", "cookie", name, "path", r.URL.Path)
		return Cookie{State: Malformed}
	}
	return Cookie{State: Valid, Record: rec}
}
