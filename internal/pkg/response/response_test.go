package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/pkg/apperr"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"validation", apperr.Validation("url", "required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", fmt.Errorf("get: %w", &apperr.NotFoundError{Resource: "file"}), http.StatusNotFound, "FILE_NOT_FOUND"},
		{"conflict", &apperr.ConflictError{Constraint: "job_ads_url_key"}, http.StatusConflict, "CONFLICT"},
		{"too large", apperr.ErrTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tc.err)

			assert.Equal(t, tc.wantCode, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    string         `json:"code"`
					Details map[string]any `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantErr, body.Error.Code)
		})
	}
}

func TestFromError_ConflictCarriesConstraint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, &apperr.ConflictError{Constraint: "applications_job_ad_id_key"})

	assert.Contains(t, w.Body.String(), `"constraint":"applications_job_ad_id_key"`)
}
