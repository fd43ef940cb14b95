package utils

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = 24 * time.Hour

var (
	ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaims     = errors.New("invalid token claims")
)

// Claims are the session claims issued at login. Subject holds the user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject, rejecting tokens issued without one.
func (c *Claims) UserID() (string, error) {
	if c == nil || c.Subject == "" {
		return "", ErrInvalidClaims
	}
	return c.Subject, nil
}

// GenerateToken signs an HS256 session token valid for TokenTTL from now.
func GenerateToken(secret string, userID uint, username, role string, now time.Time) (string, error) {
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
		return "", ErrMissingAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// ParseToken verifies an HS256 token and returns its claims. Expired tokens
// and tokens signed with any other method are rejected.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyToken reads the bearer token from the Authorization header and
// verifies it.
func VerifyToken(r *http.Request, secret string) (*Claims, error) {
	tokenStr, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return ParseToken(tokenStr, secret)
}
