package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Register a responder
// @Description Register a responder profile. Admin-created profiles are active immediately, the rest await approval.
// @Tags Responders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param responder body CreateResponderRequest true "Responder registration request"
// @Success 201 {object} ResponderResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders [post]
func (h *Handler) createResponder(c *gin.Context) {
	var input CreateResponderRequest
	log := h.logger.WithField("method", "createResponder")

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
	model := CreateDTOToResponderModel(input)
	if err := h.responderService.RegisterResponder(c.Request.Context(), viewer, model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToResponderResponse(model))
}

// @Summary List responders
// @Description Get the responder registry with optional type and name filters
// @Tags Responders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type query string false "Responder type filter"
// @Param search query string false "Name substring search"
// @Success 200 {array} ResponderResponse
// @Failure 400 {object} map[string]string "Unknown responder type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders [get]
func (h *Handler) listResponders(c *gin.Context) {
	log := h.logger.WithField("method", "listResponders")

	responders, err := h.responderService.ListResponders(c.Request.Context(), c.Query("type"), c.Query("search"))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToResponderResponses(responders))
}

// @Summary Find nearby resources
// @Description Get active NGOs and volunteer groups within the calling agency's operating area
// @Tags Responders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ResponderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Responder profile not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders/nearby [get]
func (h *Handler) nearbyResources(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyResources")

	viewer, _ := viewerFromContext(c)
	responders, err := h.responderService.NearbyResources(c.Request.Context(), viewer)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToResponderResponses(responders))
}

// @Summary Approve a responder
// @Description Activate a pending responder. Admin only.
// @Tags Responders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Responder ID"
// @Success 200 {object} map[string]string "Status approved"
// @Failure 400 {object} map[string]string "Invalid responder ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Responder not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders/{id}/approve [post]
func (h *Handler) approveResponder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid responder ID"})
		return
	}
	log := h.logger.WithField("method", "approveResponder").WithField("id", id)

	if err := h.responderService.Approve(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

// @Summary Suspend a responder
// @Description Suspend a responder without removing the record. Admin only.
// @Tags Responders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Responder ID"
// @Success 200 {object} map[string]string "Status suspended"
// @Failure 400 {object} map[string]string "Invalid responder ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Responder not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders/{id}/suspend [post]
func (h *Handler) suspendResponder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid responder ID"})
		return
	}
	log := h.logger.WithField("method", "suspendResponder").WithField("id", id)

	if err := h.responderService.Suspend(c.Request.Context(), id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "suspended"})
}
