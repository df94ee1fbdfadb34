package session

import (
	"net/http"
	"net/url"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
)

const (
	// CookieAdmin is scoped to the admin section only so a user-role tab
	// never sends it and an admin logout never touches user sessions.
	CookieAdmin = "admin-auth-token"
	// CookieUser is the site-wide cookie for customer sessions.
	CookieUser = "user-auth-token"
	// CookieLegacy duplicates the role-scoped cookie site-wide for older
	// code paths that only check this name.
	CookieLegacy = "auth-token"

	AdminPathPrefix = "/Admin"
	LoginPath       = "/Login"
	HomePath        = "/"

	MaxAgeSession    = 86400
	MaxAgePersistent = 2592000
)

type CookieSpec struct {
	Name   string
	Path   string
	MaxAge int
}

// CookieSet is the fan-out table for one authentication write: the
// role-scoped cookie plus the legacy site-wide duplicate, all with the
// same lifetime. Dropping the legacy entry here removes it everywhere.
func CookieSet(role string, maxAge int) []CookieSpec {
	scoped := CookieSpec{Name: CookieUser, Path: HomePath, MaxAge: maxAge}
	if role == model.RoleAdmin {
		scoped = CookieSpec{Name: CookieAdmin, Path: AdminPathPrefix, MaxAge: maxAge}
	}

	return []CookieSpec{
		scoped,
		{Name: CookieLegacy, Path: HomePath, MaxAge: maxAge},
	}
}

// CookieWriter applies a codec to cookie values. Values are query-escaped
// because the JSON payload contains characters cookies cannot carry.
type CookieWriter struct {
	codec Codec

	sessionMaxAge    int
	persistentMaxAge int
}

func NewCookieWriter(codec Codec) *CookieWriter {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &CookieWriter{
		codec:            codec,
		sessionMaxAge:    MaxAgeSession,
		persistentMaxAge: MaxAgePersistent,
	}
}

func (cw *CookieWriter) WriteSet(w http.ResponseWriter, rec Record, persistent bool) error {
	encoded, err := cw.codec.Encode(rec)
	if err != nil {
		return err
	}

	maxAge := cw.sessionMaxAge
	if persistent {
		maxAge = cw.persistentMaxAge
	}

	value := url.QueryEscape(encoded)
	for _, spec := range CookieSet(rec.Role, maxAge) {
		http.SetCookie(w, &http.Cookie{
			Name:     spec.Name,
			Value:    value,
			Path:     spec.Path,
			MaxAge:   spec.MaxAge,
			HttpOnly: false,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return nil
}

// ClearForRole removes only the cookie matching the role's scope plus the
// legacy cookie. The other role's scoped cookie is left alone so a session
// of the other role in another browsing context survives.
func (cw *CookieWriter) ClearForRole(w http.ResponseWriter, role string) {
	scoped := CookieSpec{Name: CookieUser, Path: HomePath}
	if role == model.RoleAdmin {
		scoped = CookieSpec{Name: CookieAdmin, Path: AdminPathPrefix}
	}

	for _, spec := range []CookieSpec{scoped, {Name: CookieLegacy, Path: HomePath}} {
		expireCookie(w, spec)
	}
}

// ClearAll removes every auth cookie. Used only by the logged-out marker
// path of the read contract, which tears down all session state.
func (cw *CookieWriter) ClearAll(w http.ResponseWriter) {
	for _, spec := range []CookieSpec{
		{Name: CookieAdmin, Path: AdminPathPrefix},
		{Name: CookieUser, Path: HomePath},
		{Name: CookieLegacy, Path: HomePath},
	} {
		expireCookie(w, spec)
	}
}

// ReadCookie decodes the named auth cookie from the request. The second
// return reports presence; a present but undecodable value returns
// ErrMalformedRecord.
func (cw *CookieWriter) ReadCookie(r *http.Request, name string) (Record, bool, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return Record{}, false, nil
	}

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return Record{}, true, ErrMalformedRecord
	}

	rec, err := cw.codec.Decode(raw)
	if err != nil {
		return Record{}, true, ErrMalformedRecord
	}

	return rec, true, nil
}

func expireCookie(w http.ResponseWriter, spec CookieSpec) {
	http.SetCookie(w, &http.Cookie{
		Name:     spec.Name,
		Value:    "",
		Path:     spec.Path,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
}
