package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type authenticator interface {
	Authenticate(ctx context.Context, req model.AuthRequest) (model.PublicUser, error)
	ListUsers(ctx context.Context, page int, limit int) ([]model.PublicUser, int, error)
}

type AuthHandler struct {
	service  authenticator
	sessions *session.Manager
}

func NewAuthHandler(service authenticator, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions}
}

// Authenticate serves both login and register, switching on the action
// field. On success the full session write contract runs: ephemeral tier,
// cookie fan-out and, when rememberMe was set, the durable tier.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	clientID := session.ClientID(w, r)
	rec := session.RecordFromUser(user)
	if err := h.sessions.Establish(r.Context(), w, clientID, rec, payload.RememberMe); err != nil {
		writeError(w, err)
		return
	}

	redirect := session.HomePath
	if rec.IsAdmin() {
		redirect = session.AdminPathPrefix
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"user":     user,
		"redirect": redirect,
	}, nil)
}

// Logout tears down the caller's session, scoped to the current role so a
// concurrent session of the other role in another tab survives.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clientID := session.ClientID(w, r)
	if err := h.sessions.Logout(r.Context(), w, clientID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"loggedOut": true}, nil)
}

// Restore runs the session read contract for a page load and reports
// whether a durable session was rehydrated and where to send the user.
func (h *AuthHandler) Restore(w http.ResponseWriter, r *http.Request) {
	clientID := session.ClientID(w, r)
	result, err := h.sessions.Restore(r.Context(), w, clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	data := map[string]any{
		"loggedOut": result.LoggedOut,
		"restored":  result.Restored,
	}
	if result.Restored {
		data["user"] = result.Record
		data["redirect"] = result.Redirect
	}
	writeSuccess(w, http.StatusOK, data, nil)
}

// Me returns the ephemeral session record, refreshing the activity
// timestamp. An elapsed idle window forces a logout instead.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	clientID := session.ClientID(w, r)

	rec, ok, err := h.sessions.Current(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		// No ephemeral session. The durable tier may still hold a valid
		// remember-me record waiting for a restore, so this must not run
		// the logout contract.
		writeError(w, apierror.Unauthorized("not logged in"))
		return
	}

	expired, err := h.sessions.IdleExpired(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	if expired {
		if err := h.sessions.Logout(r.Context(), w, clientID); err != nil {
			writeError(w, err)
			return
		}
		writeError(w, apierror.Unauthorized("session expired due to inactivity"))
		return
	}

	if err := h.sessions.Touch(r.Context(), clientID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"user": rec}, nil)
}

// Users lists accounts for the admin section, paginated.
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	if _, err := requireAdmin(r, h.sessions.Cookies()); err != nil {
		writeError(w, err)
		return
	}

	page, limit := pageParams(r)
	users, total, err := h.service.ListUsers(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, users, model.NewPagination(page, limit, total))
}
