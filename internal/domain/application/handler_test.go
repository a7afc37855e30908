package application

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/domain/jobad"
	"jobtracker/internal/domain/recruiter"
	"jobtracker/internal/storage"
	"jobtracker/internal/testutil"
)

type testServer struct {
	router *gin.Engine
	hub    *Hub
}

func setupTestRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.NewTestDB(t)
	recruiters := recruiter.NewService(recruiter.NewRepository(db))
	jobAds := jobad.NewService(jobad.NewRepository(db), recruiters)
	hub := NewHub([]string{"http://localhost:3000"}, logger)
	svc := NewService(NewRepository(db), jobAds, nil, storage.NewMemoryStore(), hub, logger)

	r := gin.New()
	g := r.Group("")
	jobad.RegisterRoutes(g, jobad.NewHandler(jobAds))
	RegisterRoutes(g, NewHandler(svc, hub, logger))
	return &testServer{router: r, hub: hub}
}

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeID(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Data.ID
}

func createJobAd(t *testing.T, r http.Handler, url string) string {
	t.Helper()
	rr := doJSONRequest(r, http.MethodPost, "/job_ads", map[string]any{
		"company_name":    "Acme",
		"job_title":       "Backend Engineer",
		"job_description": "Build APIs in Go.",
		"published_at":    "2024-03-01",
		"job_type":        "full-time",
		"source":          "linkedin",
		"url":             url,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeID(t, rr)
}

func TestApplicationEndpoints(t *testing.T) {
	s := setupTestRouter(t)
	r := s.router
	adID := createJobAd(t, r, "https://acme.example/jobs/1")

	rr := doJSONRequest(r, http.MethodPost, "/application", map[string]any{"job_ads_id": adID, "note": "dream job"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	appID := decodeID(t, rr)
	assert.Contains(t, rr.Body.String(), `"status":"created"`)

	rr = doJSONRequest(r, http.MethodPost, "/application", map[string]any{"job_ads_id": adID})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "applications_job_ad_id_key")

	rr = doJSONRequest(r, http.MethodPost, "/application", map[string]any{"job_ads_id": "3f1d2c4b-5a6e-4f70-8a9b-0c1d2e3f4a5b"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "JOB_AD_NOT_FOUND")

	rr = doJSONRequest(r, http.MethodGet, "/job_ads/"+adID+"/application", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, appID, decodeID(t, rr))

	rr = doJSONRequest(r, http.MethodPatch, "/application/"+appID, `{"status":"applied","stage":"CV sent"}`)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"stage":"CV sent"`)

	rr = doJSONRequest(r, http.MethodPatch, "/application/"+appID, `{"created_at":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/application/"+appID+"/status", `{"status":"created"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")

	rr = doJSONRequest(r, http.MethodPost, "/application/"+appID+"/status", `{"status":"interview","title":"Onsite scheduled"}`)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPost, "/application/"+appID+"/timeline", `{"event_type":"manual","title":"Sent thank-you note"}`)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"event_type":"manual"`)

	rr = doJSONRequest(r, http.MethodPost, "/application/"+appID+"/timeline", `{"event_type":"email","title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/application/"+appID+"/timeline", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var timeline struct {
		Data TimelineResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &timeline))
	require.Len(t, timeline.Data.Events, 4)
	assert.Equal(t, "Application Created", timeline.Data.Events[0].Title)
	assert.Equal(t, "Onsite scheduled", timeline.Data.Events[2].Title)

	rr = doJSONRequest(r, http.MethodGet, "/application?status=interview", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)

	rr = doJSONRequest(r, http.MethodGet, "/application/stats", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"interview":1`)

	rr = doJSONRequest(r, http.MethodDelete, "/job_ads/"+adID, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSONRequest(r, http.MethodDelete, "/application/"+appID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/application/"+appID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "APPLICATION_NOT_FOUND")

	rr = doJSONRequest(r, http.MethodGet, "/application/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_ID")
}

func TestTimelineFeed(t *testing.T) {
	s := setupTestRouter(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	adID := createJobAd(t, s.router, "https://acme.example/jobs/ws")
	rr := doJSONRequest(s.router, http.MethodPost, "/application", map[string]any{"job_ads_id": adID})
	require.Equal(t, http.StatusCreated, rr.Code)
	appID := decodeID(t, rr)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/application/" + appID + "/timeline/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Subscribers(appID) == 1 }, 2*time.Second, 10*time.Millisecond)

	rr = doJSONRequest(s.router, http.MethodPost, "/application/"+appID+"/timeline", `{"title":"Recruiter called"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg FeedEvent
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, EventTimelineAppended, msg.Type)
	assert.Equal(t, appID, msg.ApplicationID)
	assert.Equal(t, "Recruiter called", msg.Event.Title)

	conn.Close()
	require.Eventually(t, func() bool { return s.hub.Subscribers(appID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestTimelineFeed_RejectsForeignOriginAndUnknownApplication(t *testing.T) {
	s := setupTestRouter(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(base+"/application/3f1d2c4b-5a6e-4f70-8a9b-0c1d2e3f4a5b/timeline/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	adID := createJobAd(t, s.router, "https://acme.example/jobs/origin")
	rr := doJSONRequest(s.router, http.MethodPost, "/application", map[string]any{"job_ads_id": adID})
	appID := decodeID(t, rr)

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err = websocket.DefaultDialer.Dial(base+"/application/"+appID+"/timeline/ws", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
