package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary List my tasks
// @Description Get the task list of the calling responder
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Responder profile not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks [get]
func (h *Handler) listTasks(c *gin.Context) {
	log := h.logger.WithField("method", "listTasks")

	viewer, _ := viewerFromContext(c)
	tasks, err := h.taskService.ListTasks(c.Request.Context(), viewer)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToTaskResponses(tasks))
}

// @Summary Accept an incident
// @Description Self-assign an unassigned incident with an ETA. First responder wins.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param acceptance body AcceptTaskRequest true "Acceptance request"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident or responder profile not found"
// @Failure 409 {object} map[string]string "Already assigned or responder unavailable"
// @Failure 422 {object} map[string]string "Invalid ETA value"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks/accept [post]
func (h *Handler) acceptTask(c *gin.Context) {
	var input AcceptTaskRequest
	log := h.logger.WithField("method", "acceptTask")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer, _ := viewerFromContext(c)
	task, err := h.taskService.Accept(c.Request.Context(), viewer, input.IncidentID, input.EtaMinutes)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToTaskResponse(task))
}

// @Summary Start a task
// @Description Mark an accepted task as in progress
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} map[string]string "Invalid task ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks/{id}/start [post]
func (h *Handler) startTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}
	log := h.logger.WithField("method", "startTask").WithField("id", id)

	viewer, _ := viewerFromContext(c)
	task, err := h.taskService.Start(c.Request.Context(), viewer, id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToTaskResponse(task))
}

// @Summary Complete a task
// @Description Mark a task in progress as completed. The incident is resolved and the responder freed in the same operation.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} map[string]string "Invalid task ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks/{id}/complete [post]
func (h *Handler) completeTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}
	log := h.logger.WithField("method", "completeTask").WithField("id", id)

	viewer, _ := viewerFromContext(c)
	task, err := h.taskService.Complete(c.Request.Context(), viewer, id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToTaskResponse(task))
}

// @Summary List my notifications
// @Description Get the notifications of the calling user, newest first
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} NotificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /notifications [get]
func (h *Handler) listNotifications(c *gin.Context) {
	log := h.logger.WithField("method", "listNotifications")

	viewer, _ := viewerFromContext(c)
	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), viewer)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToNotificationResponses(notifications))
}
