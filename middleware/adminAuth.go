package middleware

import (
	"net/http"

	"hirewise/models"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// adminActorID is the identity recorded on timeline entries written with the static admin token.
const adminActorID = "admin"

// AdminAuthMiddleware admits either a signed token carrying the admin flag, or the operator token
// whose bcrypt hash is configured as ADMIN_TOKEN_HASH.
func AdminAuthMiddleware(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Code:    utils.CodeUnauthorized,
				Message: "Missing or invalid Authorization header",
			})
			return
		}

		if actor, err := utils.ActorFromToken(tokenString); err == nil {
			if !actor.IsAdmin {
				c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
					Code:    utils.CodeUnauthorized,
					Message: "Admin access required",
				})
				return
			}
			SetActor(c, actor)
			c.Next()
			return
		}

		if tokenHash != "" && bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(tokenString)) == nil {
			SetActor(c, models.Actor{ID: adminActorID, IsAdmin: true})
			c.Next()
			return
		}

		zap.L().Warn("admin auth rejected", zap.String("ip", c.ClientIP()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
			Code:    utils.CodeUnauthorized,
			Message: "Unauthorized admin access",
		})
	}
}
