package middleware

import (
	"net/http"
	"strings"

	accountRepo "gigbridge/database/repository/account"
	"gigbridge/models"
	"gigbridge/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// AuthMiddleware validates the bearer token, resolves the acting account once,
// and stores the resulting ActorContext for handlers downstream. Suspended
// accounts are rejected here so no operation sees them.
func AuthMiddleware(accounts accountRepo.AccountRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		actor, err := utils.ActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		acct, err := accounts.GetByID(actor.AccountID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication lookup failed"})
			return
		}
		if acct == nil || !acct.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account unknown or inactive"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFrom retrieves the ActorContext placed by AuthMiddleware. The second
// return is false when the route was not wired through AuthMiddleware.
func ActorFrom(c *gin.Context) (models.ActorContext, bool) {
	val, exists := c.Get(actorContextKey)
	if !exists {
		return models.ActorContext{}, false
	}
	actor, ok := val.(models.ActorContext)
	return actor, ok
}
