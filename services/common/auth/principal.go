package auth

import "context"

// Role is the account role carried in access tokens.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
)

// ParseRole accepts the roles a user may register with. Empty means RoleUser.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case "", RoleUser:
		return RoleUser, true
	case RoleVendor:
		return RoleVendor, true
	default:
		return "", false
	}
}

// Principal is the verified caller of a request.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Role     Role
	// Service is set for peers that presented the inter-service secret.
	Service bool
}

// ServicePrincipal identifies a peer service.
func ServicePrincipal() Principal {
	return Principal{Service: true}
}

func (p Principal) IsService() bool {
	return p.Service
}

// CanManageCatalog gates product create, update and delete.
func (p Principal) CanManageCatalog() bool {
	return !p.Service && p.Role == RoleVendor
}

// Owns reports whether userID belongs to the caller.
func (p Principal) Owns(userID string) bool {
	return !p.Service && p.UserID != "" && p.UserID == userID
}

// Verifier resolves a bearer token into a Principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
