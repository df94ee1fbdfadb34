package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
)

const (
	clientIDCookie = "sf-client-id"
	// defaultSessionTTL bounds ephemeral records and the session cookie.
	defaultSessionTTL = time.Duration(MaxAgeSession) * time.Second
	// defaultDurableWindow is the restore window for "remember me" records.
	defaultDurableWindow = time.Duration(MaxAgePersistent) * time.Second
	// defaultIdleTimeout forces a logout after this much inactivity.
	defaultIdleTimeout = 5 * time.Minute
)

// Manager owns the session write, read and logout contracts over the two
// storage tiers and the cookie fan-out. All decode failures are converted
// to "absent" with the offending keys cleared; no error from a malformed
// payload escapes to callers.
type Manager struct {
	ephemeral Store
	durable   Store
	codec     Codec
	cookies   *CookieWriter

	sessionTTL    time.Duration
	durableWindow time.Duration
	idleTimeout   time.Duration
	clock         func() time.Time
}

func NewManager(ephemeral Store, durable Store, codec Codec, sessionTTL, durableWindow, idleTimeout time.Duration) *Manager {
	if codec == nil {
		codec = JSONCodec{}
	}
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	if durableWindow <= 0 {
		durableWindow = defaultDurableWindow
	}
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}

	cookies := NewCookieWriter(codec)
	cookies.sessionMaxAge = int(sessionTTL.Seconds())
	cookies.persistentMaxAge = int(durableWindow.Seconds())

	return &Manager{
		ephemeral:     ephemeral,
		durable:       durable,
		codec:         codec,
		cookies:       cookies,
		sessionTTL:    sessionTTL,
		durableWindow: durableWindow,
		idleTimeout:   idleTimeout,
		clock:         time.Now,
	}
}

// Cookies exposes the cookie writer so handlers can read auth cookies with
// the same codec the manager writes them with.
func (m *Manager) Cookies() *CookieWriter {
	return m.cookies
}

// ClientID returns the stable per-browser key used to partition the
// storage tiers, minting and setting it when absent.
func ClientID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(clientIDCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     clientIDCookie,
		Value:    id,
		Path:     HomePath,
		MaxAge:   MaxAgePersistent,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Establish implements the write contract for a successful authentication:
// ephemeral record + login timestamp always, cookie fan-out always, durable
// record only when persistent was requested (otherwise any stale durable
// record is cleared).
func (m *Manager) Establish(ctx context.Context, w http.ResponseWriter, clientID string, rec Record, persistent bool) error {
	encoded, err := m.codec.Encode(rec)
	if err != nil {
		return err
	}

	now := m.clock().UTC()

	if err := m.ephemeral.Set(ctx, clientID+":"+KeyUser, encoded, m.sessionTTL); err != nil {
		return err
	}
	if err := m.ephemeral.Set(ctx, clientID+":"+KeyLoginTime, now.Format(time.RFC3339), m.sessionTTL); err != nil {
		return err
	}
	// A fresh login supersedes any logged-out marker from a previous cycle.
	if err := m.ephemeral.Delete(ctx, clientID+":"+KeyLogout); err != nil {
		return err
	}

	if err := m.cookies.WriteSet(w, rec, persistent); err != nil {
		return err
	}

	if !persistent {
		return m.durable.Delete(ctx,
			clientID+":"+KeyUser,
			clientID+":"+KeyRememberMe,
			clientID+":"+KeyLoginTime,
		)
	}

	if err := m.durable.Set(ctx, clientID+":"+KeyUser, encoded, m.durableWindow); err != nil {
		return err
	}
	if err := m.durable.Set(ctx, clientID+":"+KeyRememberMe, "true", m.durableWindow); err != nil {
		return err
	}
	return m.durable.Set(ctx, clientID+":"+KeyLoginTime, now.Format(time.RFC3339), m.durableWindow)
}

// RestoreResult reports what the read contract decided for this load.
type RestoreResult struct {
	LoggedOut bool
	Restored  bool
	Record    Record
	// Redirect is set when a durable restore happened: admins land on the
	// admin section, everyone else on home.
	Redirect string
}

// Restore implements the read contract evaluated on page load.
func (m *Manager) Restore(ctx context.Context, w http.ResponseWriter, clientID string) (RestoreResult, error) {
	// An explicit logged-out marker wins over everything: tear down all
	// three locations and do not auto-restore this cycle.
	if _, marked, err := m.ephemeral.Get(ctx, clientID+":"+KeyLogout); err != nil {
		return RestoreResult{}, err
	} else if marked {
		if err := m.clearEphemeral(ctx, clientID); err != nil {
			return RestoreResult{}, err
		}
		if err := m.clearDurable(ctx, clientID); err != nil {
			return RestoreResult{}, err
		}
		m.cookies.ClearAll(w)
		return RestoreResult{LoggedOut: true}, nil
	}

	raw, present, err := m.durable.Get(ctx, clientID+":"+KeyUser)
	if err != nil {
		return RestoreResult{}, err
	}
	if !present {
		// No durable record: leave the ephemeral tier as-is, never
		// synthesize a session.
		return RestoreResult{}, nil
	}

	rec, decodeErr := m.codec.Decode(raw)
	if decodeErr != nil {
		slog.Warn("durable session record malformed; clearing", "client_id", clientID)
		return RestoreResult{}, m.clearDurable(ctx, clientID)
	}

	loginRaw, hasLogin, err := m.durable.Get(ctx, clientID+":"+KeyLoginTime)
	if err != nil {
		return RestoreResult{}, err
	}

	loginTime, parseErr := time.Parse(time.RFC3339, loginRaw)
	if !hasLogin || parseErr != nil {
		slog.Warn("durable login timestamp missing or malformed; clearing", "client_id", clientID)
		return RestoreResult{}, m.clearDurable(ctx, clientID)
	}

	if m.clock().Sub(loginTime) > m.durableWindow {
		return RestoreResult{}, m.clearDurable(ctx, clientID)
	}

	// Within the window: rehydrate the ephemeral tier and the cookie set
	// the same way the write contract derives them.
	if err := m.Establish(ctx, w, clientID, rec, true); err != nil {
		return RestoreResult{}, err
	}

	redirect := HomePath
	if rec.IsAdmin() {
		redirect = AdminPathPrefix
	}
	return RestoreResult{Restored: true, Record: rec, Redirect: redirect}, nil
}

// Logout implements the logout contract: the role is resolved from the
// ephemeral record before anything is cleared, and only that role's scoped
// cookie plus the legacy cookie are expired.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, clientID string) error {
	role := model.RoleUser
	if raw, present, err := m.ephemeral.Get(ctx, clientID+":"+KeyUser); err != nil {
		return err
	} else if present {
		if rec, decodeErr := m.codec.Decode(raw); decodeErr == nil {
			role = rec.Role
		}
	}

	if err := m.clearEphemeral(ctx, clientID); err != nil {
		return err
	}
	if err := m.clearDurable(ctx, clientID); err != nil {
		return err
	}

	// The marker suppresses durable auto-restore on the next load.
	if err := m.ephemeral.Set(ctx, clientID+":"+KeyLogout, "true", m.sessionTTL); err != nil {
		return err
	}

	m.cookies.ClearForRole(w, role)
	return nil
}

// Current returns the ephemeral session record, treating malformed payloads
// as absent and clearing them.
func (m *Manager) Current(ctx context.Context, clientID string) (Record, bool, error) {
	raw, present, err := m.ephemeral.Get(ctx, clientID+":"+KeyUser)
	if err != nil || !present {
		return Record{}, false, err
	}

	rec, decodeErr := m.codec.Decode(raw)
	if decodeErr != nil {
		return Record{}, false, m.ephemeral.Delete(ctx, clientID+":"+KeyUser)
	}
	return rec, true, nil
}

// Touch refreshes the activity timestamp used by the idle check.
func (m *Manager) Touch(ctx context.Context, clientID string) error {
	return m.ephemeral.Set(ctx, clientID+":"+KeyLoginTime,
		m.clock().UTC().Format(time.RFC3339), m.sessionTTL)
}

// IdleExpired reports whether the inactivity window has elapsed since the
// last Touch. Missing or malformed timestamps count as expired.
func (m *Manager) IdleExpired(ctx context.Context, clientID string) (bool, error) {
	raw, present, err := m.ephemeral.Get(ctx, clientID+":"+KeyLoginTime)
	if err != nil {
		return false, err
	}
	if !present {
		return true, nil
	}

	last, parseErr := time.Parse(time.RFC3339, raw)
	if parseErr != nil {
		return true, m.ephemeral.Delete(ctx, clientID+":"+KeyLoginTime)
	}

	return m.clock().Sub(last) > m.idleTimeout, nil
}

func (m *Manager) clearEphemeral(ctx context.Context, clientID string) error {
	return m.ephemeral.Delete(ctx,
		clientID+":"+KeyUser,
		clientID+":"+KeyLoginTime,
		clientID+":"+KeyLogout,
	)
}

func (m *Manager) clearDurable(ctx context.Context, clientID string) error {
	return m.durable.Delete(ctx,
		clientID+":"+KeyUser,
		clientID+":"+KeyRememberMe,
		clientID+":"+KeyLoginTime,
	)
}
