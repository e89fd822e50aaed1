package middleware

import (
	"net/http"
	"strings"

	"todo-ledger/internal/apperr"
	"todo-ledger/internal/auth"
	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware verifies the bearer token and stores the identity in the
// gin context. Missing, malformed, tampered and expired tokens all get the
// same 401 response.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := verifier.Verify(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, apperr.MessageOf(apperr.ErrAuth))
			c.Abort()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// bearerToken extracts <t> from "Bearer <t>"; anything else yields "".
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
