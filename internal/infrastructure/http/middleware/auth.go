package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cuizine/api/internal/domain/user"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// IdentityClaims are the token claims issued by the external auth
// provider. The subject is the provider's user ID.
type IdentityClaims struct {
	SubscriptionTier string `json:"subscription_tier"`
	jwt.RegisteredClaims
}

// Authenticate verifies the bearer token and resolves the caller's
// identity. An unknown or missing tier claim degrades to free.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing or malformed authorization header",
			})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &IdentityClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.config.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}
		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token has no subject",
			})
			return
		}

		SetIdentity(c, user.Identity{
			ID:   claims.Subject,
			Tier: user.ParseTier(claims.SubscriptionTier),
		})

		c.Next()
	}
}

// SetIdentity stores the authenticated identity on the request context
func SetIdentity(c *gin.Context, identity user.Identity) {
	c.Set(identityKey, identity)
	c.Set("user_id", identity.ID)
}

// IdentityFrom returns the authenticated identity stored by Authenticate
func IdentityFrom(c *gin.Context) (user.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return user.Identity{}, false
	}
	identity, ok := value.(user.Identity)
	return identity, ok
}
