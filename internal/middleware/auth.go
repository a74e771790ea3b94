package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/accounts"
	"ecofood/internal/models"
)

const (
	accountIDKey = "accountId"
	roleKey      = "role"
)

// AuthGuard validates the bearer access token and, when roles are given,
// requires the bearer to hold one of them. The account id and role are
// stored on the context.
func AuthGuard(secret string, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, err := accounts.ParseAccessToken(secret, parts[1])
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if claims.Role == r {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Set(accountIDKey, claims.AccountID)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

func CompanyAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, models.RoleCompany)
}

func ClientAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, models.RoleClient)
}

func AdminAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, models.RoleAdmin)
}

// AccountID returns the id stored by AuthGuard.
func AccountID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(accountIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}

func Role(c *gin.Context) models.Role {
	value, _ := c.Get(roleKey)
	role, _ := value.(models.Role)
	return role
}
