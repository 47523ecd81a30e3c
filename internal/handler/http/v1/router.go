package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/sahyog/crisis_response_platform/internal/models"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичные маршруты аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	// Все остальные маршруты требуют токен сессии
	protected := api.Group("")
	protected.Use(AuthMiddleware(h.authService, h.logger))

	// Маршруты реестра инцидентов
	incidents := protected.Group("/incidents")
	{
		incidents.POST("", h.reportIncident)
		incidents.POST("/sos", h.sos)
		incidents.GET("", h.listIncidents)
		incidents.GET("/stats", RequireRoles(models.RoleAdmin), h.getStats)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/assign", RequireRoles(models.RoleAgency, models.RoleAdmin), h.assignIncident)
	}

	// Маршруты задач ответчиков
	tasks := protected.Group("/tasks", RequireRoles(models.RoleVolunteer, models.RoleAgency))
	{
		tasks.GET("", h.listTasks)
		tasks.POST("/accept", h.acceptTask)
		tasks.POST("/:id/start", h.startTask)
		tasks.POST("/:id/complete", h.completeTask)
	}

	// Уведомления вызывающего пользователя
	protected.GET("/notifications", h.listNotifications)

	// Маршруты реестра ответчиков
	responders := protected.Group("/responders")
	{
		responders.POST("", RequireRoles(models.RoleVolunteer, models.RoleAgency, models.RoleAdmin), h.createResponder)
		responders.GET("", RequireRoles(models.RoleAgency, models.RoleAdmin), h.listResponders)
		responders.GET("/nearby", RequireRoles(models.RoleAgency), h.nearbyResources)
		responders.POST("/:id/approve", RequireRoles(models.RoleAdmin), h.approveResponder)
		responders.POST("/:id/suspend", RequireRoles(models.RoleAdmin), h.suspendResponder)
	}
}
