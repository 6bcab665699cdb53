package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/shopswift/marketplace/services/common/client"
	apperrors "github.com/shopswift/marketplace/services/common/errors"
)

// UserView is the public user shape returned by the identity service.
type UserView struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

type verifyResponse struct {
	Valid bool     `json:"valid"`
	User  UserView `json:"user"`
}

// IdentityClient verifies user tokens by forwarding them to the identity service.
type IdentityClient struct {
	http *client.Client
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{http: client.New(baseURL, timeout)}
}

func (ic *IdentityClient) Verify(ctx context.Context, token string) (Principal, error) {
	var resp verifyResponse
	err := ic.http.Do(ctx, http.MethodPost, "/verify-token", token, nil, &resp)
	switch {
	case client.HasStatus(err, http.StatusUnauthorized), client.HasStatus(err, http.StatusNotFound):
		return Principal{}, apperrors.ErrInvalidToken
	case err != nil:
		return Principal{}, apperrors.Upstream("Error verifying token", err)
	case !resp.Valid:
		return Principal{}, apperrors.ErrInvalidToken
	}

	return Principal{
		UserID:   resp.User.ID,
		Username: resp.User.Username,
		Email:    resp.User.Email,
		Role:     resp.User.Role,
	}, nil
}
