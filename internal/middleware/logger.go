package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobtracker/internal/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// ErrorLogger logs every request, records errors attached with c.Error and
// recovers from panics with a 500.
func ErrorLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequest(logger, c, start, slog.LevelError, "panic",
					slog.String("error", err.Error()),
					slog.String("stack", string(debug.Stack())),
				)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			if len(c.Errors) == 0 {
				level := slog.LevelInfo
				if c.Writer.Status() >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logRequest(logger, c, start, level, "request")
				return
			}

			for _, err := range c.Errors {
				logRequest(logger, c, start, slog.LevelError, "request_error",
					slog.String("error", err.Error()),
				)
			}
		}()

		c.Next()
	}
}

func logRequest(logger *slog.Logger, c *gin.Context, start time.Time, level slog.Level, msg string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.Int("status", c.Writer.Status()),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("client_ip", c.ClientIP()),
		slog.String("user_id", c.GetString("user_id")),
		slog.String("request_id", c.GetString("request_id")),
		slog.Duration("latency", time.Since(start)),
	}
	attrs = append(attrs, extra...)
	logger.LogAttrs(c.Request.Context(), level, msg, attrs...)
}
