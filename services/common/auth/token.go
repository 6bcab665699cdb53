package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/shopswift/marketplace/services/common/errors"

	"github.com/golang-jwt/jwt/v4"
)

const accessTokenType = "access"

// DefaultTokenTTL applies when JWT_EXPIRY is unset.
const DefaultTokenTTL = time.Hour

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenService returns a TokenService signing with secret. The secret is required.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secretKey: []byte(secret), ttl: ttl}, nil
}

// Issue signs an access token for p.
func (s *TokenService) Issue(p Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      p.UserID,
		"username": p.Username,
		"email":    p.Email,
		"role":     string(p.Role),
		"typ":      accessTokenType,
		"exp":      now.Add(s.ttl).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Parse validates tokenStr and returns the principal it names.
func (s *TokenService) Parse(tokenStr string) (Principal, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || token == nil || !token.Valid {
		return Principal{}, apperrors.ErrInvalidToken.Wrap(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, apperrors.ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != accessTokenType {
		return Principal{}, apperrors.ErrInvalidToken.Wrap(fmt.Errorf("invalid token type %q", typ))
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, apperrors.ErrInvalidToken.Wrap(fmt.Errorf("missing sub claim"))
	}
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return Principal{
		UserID:   sub,
		Username: username,
		Email:    email,
		Role:     Role(role),
	}, nil
}

// Verify implements Verifier with a local signature check.
func (s *TokenService) Verify(_ context.Context, token string) (Principal, error) {
	return s.Parse(token)
}
