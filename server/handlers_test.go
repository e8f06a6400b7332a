package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factlens/factlens/pipeline"
	"github.com/factlens/factlens/server/middlewares"
	"github.com/factlens/factlens/translator"
)

type fakeRunner struct {
	res *pipeline.Result
	err error
}

func (f *fakeRunner) Run(_ context.Context, question string) (*pipeline.Result, error) {
	return f.res, f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func newTestRouter(runner Runner, pinger Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares.RequestId())
	router.POST("/query", QueryHandler(runner))
	router.GET("/healthcheck", HealthcheckHandler(pinger))
	return router
}

func postQuery(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestQueryHandlerSuccess(t *testing.T) {
	runner := &fakeRunner{res: &pipeline.Result{
		Question: "list posts",
		Query:    "MATCH (p:Post) RETURN p.id LIMIT 5",
		Rows:     []map[string]any{{"p.id": "p1"}},
		Summary:  "One post found.",
		Trace:    pipeline.Trace{Stage: pipeline.StageDone, Path: pipeline.PathModel},
	}}
	router := newTestRouter(runner, &fakePinger{})

	w := postQuery(router, `{"question": "list posts"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "MATCH (p:Post) RETURN p.id LIMIT 5", res.Query)
	assert.Equal(t, "One post found.", res.Summary)
	assert.Equal(t, pipeline.StageDone, res.Trace.Stage)
	assert.NotEmpty(t, w.Header().Get(middlewares.RequestIdHeader))
}

func TestQueryHandlerRejectsEmptyQuestion(t *testing.T) {
	router := newTestRouter(&fakeRunner{}, &fakePinger{})

	w := postQuery(router, `{"question": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must not be empty")
}

func TestQueryHandlerRejectsInvalidBody(t *testing.T) {
	router := newTestRouter(&fakeRunner{}, &fakePinger{})

	w := postQuery(router, `{"question": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryHandlerSurfacesPartialTrace(t *testing.T) {
	res := &pipeline.Result{Question: "list posts"}
	res.Trace.Stage = pipeline.StageErrored
	res.Trace.ErrorKind = pipeline.KindValidationError
	res.Trace.Query = "MATCH (p:Post RETURN p.id"
	runner := &fakeRunner{res: res, err: &translator.ExtractionError{}}
	router := newTestRouter(runner, &fakePinger{})

	w := postQuery(router, `{"question": "list posts"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, pipeline.KindValidationError, payload["kind"])
	trace := payload["trace"].(map[string]any)
	assert.Equal(t, "MATCH (p:Post RETURN p.id", trace["query"])
}

func TestQueryHandlerToleratesNilResult(t *testing.T) {
	// A runner that returns only an error must still produce a structured
	// 500, not a panic.
	runner := &fakeRunner{res: nil, err: context.DeadlineExceeded}
	router := newTestRouter(runner, &fakePinger{})

	w := postQuery(router, `{"question": "list posts"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, pipeline.KindInternalError, payload["kind"])
}

func TestHealthcheck(t *testing.T) {
	router := newTestRouter(&fakeRunner{}, &fakePinger{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthcheckUnavailable(t *testing.T) {
	router := newTestRouter(&fakeRunner{}, &fakePinger{err: context.DeadlineExceeded})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
