package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/shopswift/marketplace/services/common/auth"
	apperrors "github.com/shopswift/marketplace/services/common/errors"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// Authenticate resolves the bearer token into an auth.Principal. A token equal to
// serviceToken identifies a peer service; anything else goes to verifier.
func Authenticate(verifier auth.Verifier, serviceToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abort(c, apperrors.ErrMissingToken)
			return
		}

		if serviceToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(serviceToken)) == 1 {
			c.Set(principalKey, auth.ServicePrincipal())
			c.Next()
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireCapability rejects callers for which allowed returns false.
func RequireCapability(allowed func(auth.Principal) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abort(c, apperrors.ErrUnauthorized)
			return
		}
		if !allowed(principal) {
			abort(c, apperrors.Forbidden(message))
			return
		}
		c.Next()
	}
}

// RequireVendor allows only principals that may manage the catalog.
func RequireVendor() gin.HandlerFunc {
	return RequireCapability(auth.Principal.CanManageCatalog, "Access denied. Vendor role required.")
}

// RequireService allows only peer services.
func RequireService() gin.HandlerFunc {
	return RequireCapability(auth.Principal.IsService, "Access denied. Service credential required.")
}

// RequireUser allows only end users, rejecting the service credential.
func RequireUser() gin.HandlerFunc {
	return RequireCapability(func(p auth.Principal) bool { return !p.IsService() }, "Access denied. User token required.")
}

// GetPrincipal returns the principal stored by Authenticate.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// SetPrincipal stores p on the context, for handlers mounted without Authenticate.
func SetPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(principalKey, p)
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
