package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/worldatlas/worldatlas-go/internal/apperror"
	"github.com/worldatlas/worldatlas-go/internal/model"
	"github.com/worldatlas/worldatlas-go/internal/repository"
)

const (
	msgUserExists         = "User already exists"
	msgInvalidUserData    = "Invalid user data"
	msgInvalidCredentials = "Invalid email or password"
	msgUserNotFound       = "User not found"
)

// UserStore is the subset of the credential store the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// TokenIssuer issues session tokens for a user identifier.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// PasswordComparer checks a plaintext password against a stored hash.
type PasswordComparer interface {
	Compare(encodedHash, password string) (bool, error)
}

// AuthService handles authentication business logic.
type AuthService struct {
	users    UserStore
	tokens   TokenIssuer
	comparer PasswordComparer
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens TokenIssuer, comparer PasswordComparer, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		comparer: comparer,
		logger:   logger,
	}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return model.AuthResponse{}, apperror.Validation(err.Error()).WithCause(err)
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.AuthResponse{}, apperror.Conflict(msgUserExists)
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResponse{}, err
	}

	user := model.NewUser(req.Name, req.Email, req.Password)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, apperror.Conflict(msgUserExists)
		}
		s.logger.ErrorContext(ctx, "create user failed", "email", req.Email, "error", err)
		return model.AuthResponse{}, apperror.Creation(msgInvalidUserData).WithCause(err)
	}

	return s.authResponse(user)
}

// Login authenticates a user and returns an auth token. An unknown email and
// a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, apperror.Auth(msgInvalidCredentials)
		}
		return model.AuthResponse{}, err
	}

	match, err := s.comparer.Compare(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return model.AuthResponse{}, apperror.Auth(msgInvalidCredentials)
	}
	if !match {
		return model.AuthResponse{}, apperror.Auth(msgInvalidCredentials)
	}

	return s.authResponse(user)
}

// GetProfile returns the public fields of the user with the given ID.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.PublicUser{}, apperror.NotFound(msgUserNotFound)
		}
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{PublicUser: user.Public(), Token: token}, nil
}
