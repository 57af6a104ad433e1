package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tablebid/internal/domain"
	"tablebid/internal/service"
)

const (
	authTokenHeader = "x-auth-token"
	authUserKey     = "auth_user"
	authTokenKey    = "auth_token"
)

// SessionAuthMiddleware resuelve el token de sesion y guarda el usuario en el contexto.
func SessionAuthMiddleware(logger *zap.Logger, authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authSvc == nil {
			fail(c, http.StatusInternalServerError, "auth not configured")
			c.Abort()
			return
		}

		token := sessionToken(c)
		if token == "" {
			fail(c, http.StatusUnauthorized, "missing session token")
			c.Abort()
			return
		}

		user, err := authSvc.Resolve(c.Request.Context(), token)
		if err != nil {
			writeError(c, logger, "resolve session", err)
			c.Abort()
			return
		}

		c.Set(authUserKey, user)
		c.Set(authTokenKey, token)
		c.Next()
	}
}

// sessionToken lee x-auth-token; acepta tambien Authorization: Bearer.
func sessionToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(authTokenHeader)); token != "" {
		return token
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return ""
}

// GetAuthUser obtiene el usuario autenticado desde el contexto.
func GetAuthUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

// mustAuthUser devuelve el id del usuario o responde 401.
func mustAuthUser(c *gin.Context) (string, bool) {
	user, ok := GetAuthUser(c)
	if !ok || user.ID == "" {
		fail(c, http.StatusUnauthorized, "unauthenticated")
		return "", false
	}
	return user.ID, true
}
