package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/worldatlas/worldatlas-go/internal/apperror"
	"github.com/worldatlas/worldatlas-go/internal/model"
	"github.com/worldatlas/worldatlas-go/internal/repository"
)

const (
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
	msgNoUser      = "User not found"
)

type contextKey string

const userKey contextKey = "user"

// TokenVerifier returns the user identifier carried by a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder loads a user without its password hash.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ErrorWriter renders an error response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Protect returns middleware that requires a valid Bearer token and attaches
// the token's user to the request context.
func Protect(verifier TokenVerifier, users UserFinder, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			token = strings.TrimSpace(token)
			if !found || token == "" {
				writeError(w, r, apperror.Auth(msgNoToken))
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				writeError(w, r, apperror.Auth(msgTokenFailed).WithCause(err))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					writeError(w, r, apperror.NotFound(msgNoUser))
					return
				}
				writeError(w, r, apperror.Auth(msgTokenFailed).WithCause(err))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user attached by Protect.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}
