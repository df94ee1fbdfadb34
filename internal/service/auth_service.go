package service

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/repository"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/pkg/apierror"
)

type AuthService struct {
	users        *repository.UserRepository
	loginTimeout time.Duration
}

func NewAuthService(users *repository.UserRepository, loginTimeout time.Duration) *AuthService {
	if loginTimeout <= 0 {
		loginTimeout = 10 * time.Second
	}
	return &AuthService{users: users, loginTimeout: loginTimeout}
}

// Authenticate dispatches on the action field of the combined auth
// endpoint: register creates the account and then behaves like login.
func (s *AuthService) Authenticate(ctx context.Context, req model.AuthRequest) (model.PublicUser, error) {
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case model.AuthActionLogin:
		return s.login(ctx, req.Email, req.Password)
	case model.AuthActionRegister:
		if _, err := s.register(ctx, req); err != nil {
			return model.PublicUser{}, err
		}
		return s.login(ctx, req.Email, req.Password)
	default:
		return model.PublicUser{}, apierror.BadRequest("action must be login or register", req.Action)
	}
}

// login runs under a fixed abort timer; elapsing it produces a
// timeout-specific message distinct from generic auth failure.
func (s *AuthService) login(ctx context.Context, email string, password string) (model.PublicUser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loginTimeout)
	defer cancel()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.PublicUser{}, apierror.BadRequest("email and password are required", "")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return model.PublicUser{}, apierror.New("TIMEOUT", "login request timed out, please try again", "", http.StatusGatewayTimeout)
		}
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound {
			return model.PublicUser{}, apierror.Unauthorized("invalid email or password")
		}
		return model.PublicUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.PublicUser{}, apierror.Unauthorized("invalid email or password")
	}

	return user.Public(), nil
}

func (s *AuthService) register(ctx context.Context, req model.AuthRequest) (model.PublicUser, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if name == "" || email == "" || req.Password == "" {
		return model.PublicUser{}, apierror.BadRequest("name, email and password are required", "")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.PublicUser{}, apierror.BadRequest("invalid email address", email)
	}
	if len(req.Password) < 8 {
		return model.PublicUser{}, apierror.BadRequest("password must be at least 8 characters", "")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, err
	}
	if exists {
		return model.PublicUser{}, apierror.Conflict("email already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return model.PublicUser{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		// Registration always produces a customer account; admins are
		// provisioned out of band.
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// SeedAdmin provisions the bootstrap admin account when it does not exist
// yet. Called once at startup; a no-op when the email is already taken.
func (s *AuthService) SeedAdmin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// ListUsers backs the admin account listing. Password hashes never leave
// the repository layer.
func (s *AuthService) ListUsers(ctx context.Context, page int, limit int) ([]model.PublicUser, int, error) {
	page, limit = ClampPage(page, limit)
	return s.users.List(ctx, page, limit)
}
