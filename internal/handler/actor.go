package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

// actorFromRequest resolves the caller's claimed identity from the auth
// cookies, falling back to the role/id headers. The claim is not
// re-verified against a signed credential; this mirrors the trust model of
// the rest of the session layer.
func actorFromRequest(r *http.Request, cookies *session.CookieWriter) (model.PublicUser, bool) {
	for _, name := range []string{session.CookieUser, session.CookieAdmin, session.CookieLegacy} {
		rec, present, err := cookies.ReadCookie(r, name)
		if present && err == nil {
			return model.PublicUser{ID: rec.ID, Name: rec.Name, Email: rec.Email, Role: rec.Role, AvatarURL: rec.AvatarURL}, true
		}
	}

	id := strings.TrimSpace(r.Header.Get("X-User-ID"))
	role := strings.TrimSpace(r.Header.Get("X-User-Role"))
	if id != "" && model.ValidRole(role) {
		return model.PublicUser{ID: id, Role: role}, true
	}

	return model.PublicUser{}, false
}

// adminClaim resolves the admin claim the way the route guard does: the
// scoped admin cookie first, the legacy cookie only when the scoped one is
// entirely absent. A present-but-malformed admin cookie blocks the
// fallback.
func adminClaim(r *http.Request, cookies *session.CookieWriter) (model.PublicUser, bool) {
	rec, present, err := cookies.ReadCookie(r, session.CookieAdmin)
	if present {
		if err != nil {
			return model.PublicUser{}, false
		}
		return model.PublicUser{ID: rec.ID, Name: rec.Name, Email: rec.Email, Role: rec.Role, AvatarURL: rec.AvatarURL}, true
	}

	rec, present, err = cookies.ReadCookie(r, session.CookieLegacy)
	if present && err == nil {
		return model.PublicUser{ID: rec.ID, Name: rec.Name, Email: rec.Email, Role: rec.Role, AvatarURL: rec.AvatarURL}, true
	}

	id := strings.TrimSpace(r.Header.Get("X-User-ID"))
	role := strings.TrimSpace(r.Header.Get("X-User-Role"))
	if id != "" && model.ValidRole(role) {
		return model.PublicUser{ID: id, Role: role}, true
	}

	return model.PublicUser{}, false
}

// requireAdmin is the capability check for admin-gated handlers. Every
// failure, including a missing credential, yields the same fixed 403
// envelope so the response never leaks whether a session exists.
func requireAdmin(r *http.Request, cookies *session.CookieWriter) (model.PublicUser, error) {
	actor, ok := adminClaim(r, cookies)
	if !ok || actor.Role != model.RoleAdmin {
		return model.PublicUser{}, apierror.Forbidden("Forbidden: admin access required")
	}
	return actor, nil
}

// pageParams parses 1-indexed pagination query parameters with defaults.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
