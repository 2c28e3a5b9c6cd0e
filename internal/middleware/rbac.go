package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/response"
)

// RequireRoles only lets callers holding one of roles through. It must run
// after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireWriter admits roles allowed to change allocation data and start runs.
func RequireWriter() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleCoordenador)
}
