// Package request holds the small binding helpers shared by handlers.
package request

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobtracker/internal/pkg/patch"
	"jobtracker/internal/pkg/response"
)

const (
	defaultLimit = 50
	maxLimit     = 100

	// MaxJSONBytes bounds every JSON request body. Uploads use multipart and
	// have their own ceiling.
	MaxJSONBytes = 1 << 20
)

// ID reads a UUID path parameter. On failure it writes a 400 and returns false.
func ID(c *gin.Context, param string) (string, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+param)
		return "", false
	}
	return id.String(), true
}

// JSON decodes the request body into dst. On failure it writes a 400 and
// returns false.
func JSON(c *gin.Context, dst any) bool {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxJSONBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body is too large")
		return false
	}
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := patch.Decode(raw, dst); err != nil {
		response.FromError(c, err)
		return false
	}
	return true
}

// Patch decodes a PATCH body as a key -> raw value map.
func Patch(c *gin.Context) (patch.Body, bool) {
	var body patch.Body
	if !JSON(c, &body) {
		return nil, false
	}
	if body == nil {
		body = patch.Body{}
	}
	return body, true
}

// Pagination reads limit/offset query parameters. Out of range values fall
// back to the defaults.
func Pagination(c *gin.Context) (limit, offset int) {
	limit = defaultLimit
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= maxLimit {
			limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
