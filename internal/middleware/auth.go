package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/centek/clinic-api/internal/handler"
	authsvc "github.com/centek/clinic-api/internal/service/auth"
	"github.com/centek/clinic-api/pkg/auth"
)

type AuthMiddleware struct {
	service *authsvc.Service
	jwt     auth.JWTService
}

func NewAuthMiddleware(service *authsvc.Service, jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{service: service, jwt: jwt}
}

// Authenticate resolves the bearer token into the doctor account and
// stores both the account and the claims in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		user, err := m.service.ValidateAccess(c.Request.Context(), parts[1])
		if err != nil {
			handler.Error(c, err)
			c.Abort()
			return
		}

		// Claims parse cannot fail here, ValidateAccess already did it.
		claims, _ := m.jwt.ValidateToken(parts[1])

		c.Set(handler.CtxUser, user)
		c.Set(handler.CtxClaims, claims)
		c.Next()
	}
}
