package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/service"
	"github.com/sirupsen/logrus"
)

const viewerContextKey = "viewer"

// AuthMiddleware - middleware для аутентификации по токену сессии.
// Идентичность вызывающего кладется в контекст запроса и дальше явно
// передается в операции сервисов.
func AuthMiddleware(authService service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn("Session token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session token required"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		viewer, err := authService.ParseToken(token)
		if err != nil {
			log.WithError(err).Warn("Invalid session token provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		c.Set(viewerContextKey, viewer)
		c.Next()
	}
}

// RequireRoles - middleware, ограничивающее маршрут перечисленными ролями
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := viewerFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session token required"})
			return
		}

		for _, role := range roles {
			if viewer.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operation not permitted for role"})
	}
}

// viewerFromContext извлекает идентичность вызывающего из контекста запроса
func viewerFromContext(c *gin.Context) (models.Viewer, bool) {
	value, exists := c.Get(viewerContextKey)
	if !exists {
		return models.Viewer{}, false
	}
	viewer, ok := value.(models.Viewer)
	return viewer, ok
}
