package file

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(f.svc))
	return r, f
}

func multipartUpload(t *testing.T, path, name, contentType string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if name != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestFileEndpoints(t *testing.T) {
	r, f := setupTestRouter(t)
	appID := f.newApplication(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, multipartUpload(t, "/application/"+appID+"/file/upload", "cv.pdf", "application/pdf", pdfBytes,
		map[string]string{"source": "manual", "category": "RESUME"}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "storage_key")

	var env struct {
		Data File `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	id := env.Data.ID
	assert.Equal(t, CategoryResume, env.Data.Category)
	assert.Equal(t, TypePDF, env.Data.FileType)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/application/"+appID+"/file", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), id)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/file/"+id+"/download", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename=cv.pdf`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, pdfBytes, rr.Body.Bytes())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/file/"+id+"/view", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `inline; filename=cv.pdf`, rr.Header().Get("Content-Disposition"))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/file/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/file/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "FILE_NOT_FOUND")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/file/"+id+"/download", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUploadEndpoint_Errors(t *testing.T) {
	r, f := setupTestRouter(t)
	appID := f.newApplication(t)
	path := "/application/" + appID + "/file/upload"

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, multipartUpload(t, path, "big.bin", "", make([]byte, 2048), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, multipartUpload(t, path, "", "", nil, map[string]string{"source": "manual"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, multipartUpload(t, path, "empty.pdf", "application/pdf", nil, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "file is empty")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, multipartUpload(t, path, "cv.pdf", "application/pdf", pdfBytes, map[string]string{"category": "portfolio"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, multipartUpload(t, "/application/3f1d2c4b-5a6e-4f70-8a9b-0c1d2e3f4a5b/file/upload", "cv.pdf", "application/pdf", pdfBytes, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "APPLICATION_NOT_FOUND")

	assert.Zero(t, f.store.Len())
}
