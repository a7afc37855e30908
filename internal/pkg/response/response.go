package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError translates a service error into the matching HTTP response.
// Unclassified errors become 500 and are attached to the gin context so the
// error logging middleware records them.
func FromError(c *gin.Context, err error) {
	var (
		verr *apperr.ValidationError
		nerr *apperr.NotFoundError
		cerr *apperr.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", verr.Fields)
	case errors.As(err, &nerr):
		Error(c, http.StatusNotFound, nerr.Code(), nerr.Error())
	case errors.As(err, &cerr):
		ErrorWithDetails(c, http.StatusConflict, "CONFLICT", cerr.Error(), gin.H{"constraint": cerr.Constraint})
	case errors.Is(err, apperr.ErrTooLarge):
		Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
