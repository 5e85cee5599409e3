package middleware

import (
	"barkbox/models"
	"barkbox/utils/apperr"
	"barkbox/utils/response"

	"github.com/gin-gonic/gin"
)

// RequireRoles admits only actors holding one of roles. It must run after JWTAuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Abort(c, errUnauthenticated)
			return
		}
		if !allowed[actor.Role] {
			response.Abort(c, apperr.Forbidden("insufficient role for this action"))
			return
		}
		c.Next()
	}
}
