package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiry is the validity window of a session token.
const DefaultTokenExpiry = 30 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptySubject = errors.New("token subject is empty")
)

// Claims carries the user identifier; nothing else is put in the token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// GenerateToken creates a signed JWT token for the given user.
func GenerateToken(userID, secret string, expiry time.Duration) (string, error) {
	if userID == "" {
		return "", ErrEmptySubject
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a JWT token string, returning the claims if valid.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TokenIssuer signs and verifies session tokens with a shared secret.
// It holds no per-session state, so any instance can verify any token.
type TokenIssuer struct {
	secret string
	expiry time.Duration
}

// NewTokenIssuer creates a TokenIssuer. A zero expiry means DefaultTokenExpiry.
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &TokenIssuer{secret: secret, expiry: expiry}
}

// Issue returns a token for userID.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	return GenerateToken(userID, t.secret, t.expiry)
}

// Verify returns the user identifier carried by a valid token.
func (t *TokenIssuer) Verify(token string) (string, error) {
	claims, err := ValidateToken(token, t.secret)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
