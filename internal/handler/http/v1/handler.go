package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/config"
	"github.com/sahyog/crisis_response_platform/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService     service.IncidentService
	assignmentService   service.AssignmentService
	taskService         service.TaskService
	authService         service.AuthService
	responderService    service.ResponderService
	notificationService service.NotificationService
	logger              *logrus.Logger
	validate            *validator.Validate
	cfg                 *config.Config
}

func NewHandler(
	incidentService service.IncidentService,
	assignmentService service.AssignmentService,
	taskService service.TaskService,
	authService service.AuthService,
	responderService service.ResponderService,
	notificationService service.NotificationService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		incidentService:     incidentService,
		assignmentService:   assignmentService,
		taskService:         taskService,
		authService:         authService,
		responderService:    responderService,
		notificationService: notificationService,
		logger:              logger,
		validate:            validator.New(),
		cfg:                 cfg,
	}
}

// respondError сопоставляет доменные ошибки сервисов с HTTP-кодами
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		log.WithError(err).Warn("Validation failed in service")
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed"})
	case errors.Is(err, service.ErrInvalidCredentials):
		log.WithError(err).Warn("Authentication failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		log.WithError(err).Warn("Operation not permitted")
		c.JSON(http.StatusForbidden, gin.H{"error": "operation not permitted"})
	case errors.Is(err, service.ErrNotFound):
		log.WithError(err).Warn("Entity not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrAlreadyAssigned):
		log.WithError(err).Warn("Incident already assigned")
		c.JSON(http.StatusConflict, gin.H{"error": "incident already assigned"})
	case errors.Is(err, service.ErrResponderUnavailable):
		log.WithError(err).Warn("Responder unavailable")
		c.JSON(http.StatusConflict, gin.H{"error": "responder unavailable"})
	case errors.Is(err, service.ErrInvalidTransition):
		log.WithError(err).Warn("Invalid status transition")
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	case errors.Is(err, service.ErrEmailTaken):
		log.WithError(err).Warn("Email already registered")
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidEta):
		log.WithError(err).Warn("Invalid ETA value")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid eta value"})
	default:
		log.WithError(err).Error("Unexpected service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Report a new incident
// @Description Report a new emergency incident. Requires authentication.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body ReportIncidentRequest true "Incident report request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

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
	model := ReportDTOToIncidentModel(input)
	if err := h.incidentService.Report(c.Request.Context(), viewer, model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Trigger an SOS alert
// @Description Create a critical incident with a single tap. Requires authentication.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sos body SOSRequest true "SOS alert request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/sos [post]
func (h *Handler) sos(c *gin.Context) {
	var input SOSRequest
	log := h.logger.WithField("method", "sos")

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
	incident, err := h.incidentService.SOS(c.Request.Context(), viewer, service.SOSRequest{
		Type:      input.Type,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Address:   input.Address,
	})
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary Get a list of incidents
// @Description Get a role-scoped paginated list of incidents. Requires authentication.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tab query string false "Tab filter: all, assigned-to-me, needs-help" default(all)
// @Param severity query string false "Severity filter"
// @Param status query string false "Status filter"
// @Param search query string false "Location substring search"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	viewer, _ := viewerFromContext(c)
	opts := service.ListOptions{
		Tab:      c.DefaultQuery("tab", "all"),
		Severity: c.Query("severity"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	incidents, err := h.incidentService.List(c.Request.Context(), viewer, opts)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Citizens may only fetch their own reports.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	viewer, _ := viewerFromContext(c)
	incident, err := h.incidentService.Get(c.Request.Context(), viewer, id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Assign a responder to an incident
// @Description Bind an available responder to an unassigned incident with an ETA. Dispatcher operation.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param assignment body AssignRequest true "Assignment request"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident or responder not found"
// @Failure 409 {object} map[string]string "Already assigned or responder unavailable"
// @Failure 422 {object} map[string]string "Invalid ETA value"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/assign [post]
func (h *Handler) assignIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "assignIncident").WithField("id", id)

	var input AssignRequest
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

	task, err := h.assignmentService.Assign(c.Request.Context(), id, input.ResponderID, input.EtaMinutes)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToTaskResponse(task))
}

// @Summary Get registry statistics
// @Description Get aggregate incident and responder statistics. Admin only.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IncidentStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
