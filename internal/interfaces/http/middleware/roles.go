package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joyeria/backend/internal/domain/identity"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
)

// RequireRoles returns middleware that allows only the given roles past.
// It must run after JWTAuth so the role claim is present.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := identity.Role(GetRole(c))
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("UNAUTHORIZED", "Authentication required"))
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("NOT_AUTHORIZED", "Role not allowed for this resource"))
			return
		}
		c.Next()
	}
}

// RequireStaff allows any back-office role through
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(
		identity.RoleAdmin,
		identity.RoleVentas,
		identity.RoleInventario,
		identity.RoleFinanzas,
		identity.RoleAuditor,
	)
}
