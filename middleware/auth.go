package middleware

import (
	"net/http"
	"strings"

	"hirewise/models"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const actorKey = "actor"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// JWTAuthMiddleware resolves the bearer token into the caller identity the services trust.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Code:    utils.CodeUnauthorized,
				Message: "Missing or invalid Authorization header",
			})
			return
		}
		actor, err := utils.ActorFromToken(tokenString)
		if err != nil {
			zap.L().Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Code:    utils.CodeUnauthorized,
				Message: "Invalid token",
			})
			return
		}
		SetActor(c, actor)
		c.Next()
	}
}

// SetActor stores the resolved caller on the request context.
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
	c.Set("userID", actor.ID)
	if actor.ProviderProfileID != "" {
		c.Set("providerID", actor.ProviderProfileID)
	}
}

// ActorFrom returns the caller stored by the auth middleware, or an anonymous actor.
func ActorFrom(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}
