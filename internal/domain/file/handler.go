package file

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/pkg/apperr"
	"jobtracker/internal/pkg/request"
	"jobtracker/internal/pkg/response"
)

// multipartOverhead is the room left for boundaries and form fields on top
// of the file ceiling.
const multipartOverhead = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload an attachment
// @Description Multipart form with file, source (manual|auto) and category (resume|cover_letter|other).
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param file formData file true "File to upload"
// @Param source formData string false "manual or auto"
// @Param category formData string false "resume, cover_letter or other"
// @Success 201 {object} response.Response{data=File}
// @Failure 400,404,413 {object} response.Response
// @Router /application/{id}/file/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	applicationID, ok := request.ID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxBytes()+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.FromError(c, apperr.ErrTooLarge)
			return
		}
		response.FromError(c, ErrNoFile)
		return
	}
	if fileHeader.Size > h.service.MaxBytes() {
		response.FromError(c, apperr.ErrTooLarge)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer src.Close()

	f, err := h.service.Upload(c.Request.Context(), UploadInput{
		ApplicationID: applicationID,
		FileName:      fileHeader.Filename,
		DeclaredMIME:  fileHeader.Header.Get("Content-Type"),
		Source:        c.PostForm("source"),
		Category:      c.PostForm("category"),
		Content:       src,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, f)
}

// List handles GET /application/:id/file
func (h *Handler) List(c *gin.Context) {
	applicationID, ok := request.ID(c, "id")
	if !ok {
		return
	}

	files, err := h.service.List(c.Request.Context(), applicationID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// Get handles GET /file/:id (metadata only).
func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	f, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, f)
}

// Download handles GET /file/:id/download
func (h *Handler) Download(c *gin.Context) {
	h.serve(c, "attachment")
}

// View handles GET /file/:id/view
func (h *Handler) View(c *gin.Context) {
	h.serve(c, "inline")
}

func (h *Handler) serve(c *gin.Context, disposition string) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	f, rc, err := h.service.Open(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, f.SizeBytes, f.MimeType, rc, map[string]string{
		"Content-Disposition":    mime.FormatMediaType(disposition, map[string]string{"filename": f.FileName}),
		"X-Content-Type-Options": "nosniff",
	})
}

// Delete godoc
// @Summary Delete an attachment (bytes, then record)
// @Tags Files
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /file/{id} [delete]
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
