package application

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/pkg/request"
	"jobtracker/internal/pkg/response"
)

type Handler struct {
	service *Service
	hub     *Hub
	logger  *slog.Logger
}

func NewHandler(service *Service, hub *Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, hub: hub, logger: logger}
}

// Create handles POST /application
// @Summary Create application
// @Description Creates the application of a job ad together with its first timeline event.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Application"
// @Success 201 {object} response.Response{data=Application}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response "job ad not found"
// @Failure 409 {object} response.Response "job ad already has an application"
// @Router /application [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !request.JSON(c, &req) {
		return
	}

	app, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, app)
}

// List handles GET /application
// @Summary List applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} response.Response{data=ApplicationListResponse}
// @Router /application [get]
func (h *Handler) List(c *gin.Context) {
	limit, offset := request.Pagination(c)
	f := ListFilter{Status: Status(c.Query("status")), Limit: limit, Offset: offset}

	apps, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ApplicationListResponse{Applications: apps, Total: total})
}

// Stats handles GET /application/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	app, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// GetByJobAd handles GET /job_ads/:id/application
func (h *Handler) GetByJobAd(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	app, err := h.service.GetByJobAd(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// Patch handles PATCH /application/:id
// @Summary Update application fields
// @Description Allowed keys: status, stage, note, applied_at, last_follow_up_at, next_follow_up_at. Status and stage changes are checked against the transition table and recorded on the timeline.
// @Tags Applications
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response{data=Application}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /application/{id} [patch]
func (h *Handler) Patch(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	body, ok := request.Patch(c)
	if !ok {
		return
	}

	app, err := h.service.Patch(c.Request.Context(), id, body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// AdvanceStatus handles POST /application/:id/status
func (h *Handler) AdvanceStatus(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req AdvanceRequest
	if !request.JSON(c, &req) {
		return
	}

	app, err := h.service.AdvanceStatus(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// Delete handles DELETE /application/:id. Attached files go with it.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AppendEvent handles POST /application/:id/timeline
// @Summary Add timeline event
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body EventRequest true "Event"
// @Success 200 {object} response.Response{data=TimelineEvent}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /application/{id}/timeline [post]
func (h *Handler) AppendEvent(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !request.JSON(c, &req) {
		return
	}

	ev, err := h.service.AppendEvent(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ev)
}

// Timeline handles GET /application/:id/timeline
func (h *Handler) Timeline(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	events, err := h.service.Timeline(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, TimelineResponse{Events: events})
}

// Feed handles GET /application/:id/timeline/ws. Browsers pass the token as
// the access_token query parameter.
func (h *Handler) Feed(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.Get(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	// The upgrader has already answered the client on failure.
	if err := h.hub.Serve(c.Writer, c.Request, id); err != nil {
		h.logger.Warn("websocket upgrade failed", "application_id", id, "error", err)
	}
}
