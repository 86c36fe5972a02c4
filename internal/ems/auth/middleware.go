package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gartstein/ems/internal/ems/models"
	"github.com/gin-gonic/gin"
)

const (
	claimsContextKey = "auth_claims"
	roleContextKey   = "auth_role"
)

// Middleware validates the bearer token and stores the caller's claims and
// role in the request context. Requests without a valid token get 401.
func Middleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		role, _ := claims["role"].(string)
		c.Set(claimsContextKey, claims)
		c.Set(roleContextKey, models.Role(role))
		c.Next()
	}
}

// RequireRole gates a route on the caller's role. Callers whose role is not
// in the allow-list get 403.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CallerRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CallerRole returns the authenticated caller's role, if any.
func CallerRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(roleContextKey)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	if !ok || !role.Valid() {
		return "", false
	}
	return role, true
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format: missing Bearer prefix")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format: empty token")
	}

	return tokenString, nil
}
