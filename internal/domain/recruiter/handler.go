package recruiter

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/pkg/request"
	"jobtracker/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /recruiter
// @Summary Create recruiter
// @Tags Recruiters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecruiterRequest true "Recruiter"
// @Success 201 {object} response.Response{data=Recruiter}
// @Failure 400 {object} response.Response
// @Router /recruiter [post]
func (h *Handler) Create(c *gin.Context) {
	var req RecruiterRequest
	if !request.JSON(c, &req) {
		return
	}

	rec, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// List handles GET /recruiter
func (h *Handler) List(c *gin.Context) {
	limit, offset := request.Pagination(c)

	recs, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, RecruiterListResponse{Recruiters: recs, Total: total})
}

// Get handles GET /recruiter/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// Patch handles PATCH /recruiter/:id
// @Summary Update recruiter fields
// @Tags Recruiters
// @Security BearerAuth
// @Param id path string true "Recruiter ID"
// @Success 200 {object} response.Response{data=Recruiter}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /recruiter/{id} [patch]
func (h *Handler) Patch(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	body, ok := request.Patch(c)
	if !ok {
		return
	}

	rec, err := h.service.Patch(c.Request.Context(), id, body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// Delete handles DELETE /recruiter/:id. Job ads referencing the recruiter
// are detached, not deleted.
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
