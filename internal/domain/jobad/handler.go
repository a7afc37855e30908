package jobad

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/pkg/apperr"
	"jobtracker/internal/pkg/request"
	"jobtracker/internal/pkg/response"
	"jobtracker/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /job_ads
// @Summary Create job ad
// @Tags JobAds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JobAdRequest true "Job ad"
// @Success 201 {object} response.Response{data=JobAd}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response "recruiter not found"
// @Failure 409 {object} response.Response "duplicate url"
// @Router /job_ads [post]
func (h *Handler) Create(c *gin.Context) {
	var req JobAdRequest
	if !request.JSON(c, &req) {
		return
	}

	ad, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ad)
}

// List handles GET /job_ads
// @Summary List job ads
// @Tags JobAds
// @Produce json
// @Security BearerAuth
// @Param q query string false "Company or title substring"
// @Param job_type query string false "Job type"
// @Param source query string false "Source"
// @Param recruiter_id query string false "Recruiter ID"
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} response.Response{data=JobAdListResponse}
// @Router /job_ads [get]
func (h *Handler) List(c *gin.Context) {
	limit, offset := request.Pagination(c)
	f := ListFilter{
		Query:       strings.TrimSpace(c.Query("q")),
		JobType:     c.Query("job_type"),
		Source:      c.Query("source"),
		RecruiterID: c.Query("recruiter_id"),
		Limit:       limit,
		Offset:      offset,
	}

	ads, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, JobAdListResponse{JobAds: ads, Total: total})
}

// ListByRecruiter handles GET /recruiter/:id/job_ads
func (h *Handler) ListByRecruiter(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	limit, offset := request.Pagination(c)

	ads, total, err := h.service.ListByRecruiter(c.Request.Context(), id, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, JobAdListResponse{JobAds: ads, Total: total})
}

// Get handles GET /job_ads/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	ad, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ad)
}

// Patch handles PATCH /job_ads/:id
// @Summary Update job ad fields
// @Description Unknown keys are rejected. The merged record is validated as on create.
// @Tags JobAds
// @Security BearerAuth
// @Param id path string true "Job ad ID"
// @Success 200 {object} response.Response{data=JobAd}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /job_ads/{id} [patch]
func (h *Handler) Patch(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	body, ok := request.Patch(c)
	if !ok {
		return
	}

	ad, err := h.service.Patch(c.Request.Context(), id, body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ad)
}

// SetRecruiter handles PATCH /job_ads/:id/recruiter with
// {"recruiter_id": "<uuid>"} to attach or {"recruiter_id": null} to detach.
func (h *Handler) SetRecruiter(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	body, ok := request.Patch(c)
	if !ok {
		return
	}
	if !body.Has("recruiter_id") {
		response.FromError(c, apperr.Validation("recruiter_id", "is required"))
		return
	}
	if err := body.CheckKeys("recruiter_id"); err != nil {
		response.FromError(c, err)
		return
	}

	var req RecruiterLinkRequest
	if err := body.Decode(&req); err != nil {
		response.FromError(c, err)
		return
	}
	if err := validator.Check(&req); err != nil {
		response.FromError(c, err)
		return
	}

	ad, err := h.service.SetRecruiter(c.Request.Context(), id, req.RecruiterID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ad)
}

// Delete handles DELETE /job_ads/:id. It fails with 409 while an
// application references the ad.
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
