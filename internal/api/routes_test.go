package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/internal/api/handler"
	"contentflow/internal/automation"
	"contentflow/internal/config"
	"contentflow/internal/content"
	"contentflow/internal/logging"
	"contentflow/internal/model"
	"contentflow/internal/observability"
	"contentflow/internal/pipeline"
	"contentflow/internal/progress"
	"contentflow/internal/research"
	"contentflow/internal/seo"
	"contentflow/internal/store"
	"contentflow/pkg/router"
)

var fixedNow = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

type server struct {
	router   *router.Router
	runner   *pipeline.Runner
	progress *progress.Store
}

func newServer(t *testing.T, delays config.Delays) *server {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	archive, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Close() })

	clock := func() time.Time { return fixedNow }
	researcher := &research.TemplateProvider{Now: clock}
	writer := content.NewTemplateWriter()
	logger := logging.Discard()

	records := progress.New(0, clock, progress.WithMetrics(metrics))
	runner := pipeline.NewRunner(records, researcher, nil, seo.DefaultStepScorer(), pipeline.Config{
		Delays:  delays,
		Archive: archive,
		Now:     clock,
	}, metrics, logger)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = runner.Shutdown(ctx)
	})

	searcher := research.NewSearcher(researcher)
	searcher.Now = clock

	h := handler.New(handler.Deps{
		Runner:     runner,
		Progress:   records,
		Engine:     automation.New(researcher, writer, nil, archive, logger),
		Researcher: researcher,
		Writer:     writer,
		Searcher:   searcher,
		Logger:     logger,
		Now:        clock,
	})

	r := router.New()
	r.SetLogger(nil)
	RegisterRoutes(r, h, reg)
	return &server{router: r, runner: runner, progress: records}
}

func (s *server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error
}

var generationBody = map[string]any{
	"input":   "electric vehicles",
	"type":    "keyword",
	"options": map[string]any{"wordCount": 800, "tone": "professional"},
}

func TestHealthz(t *testing.T) {
	s := newServer(t, config.Delays{})
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGenerationLifecycle(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodPost, "/api/generation-progress/gen-1", generationBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	started := decode[handler.StartResponse](t, rec)
	assert.True(t, started.Success)
	assert.Equal(t, "gen-1", started.GenerationID)
	assert.Equal(t, "Generation started successfully", started.Message)

	s.runner.Wait("gen-1")

	rec = s.do(t, http.MethodGet, "/api/generation-progress/gen-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.GenerationRecord](t, rec)
	assert.Equal(t, model.RecordCompleted, got.Status)
	assert.Equal(t, model.StageCompletion, got.CurrentStep)
	for _, st := range got.Steps {
		assert.Equal(t, model.StageCompleted, st.Status, st.ID)
	}
	require.NotNil(t, got.Article)
	assert.Contains(t, strings.ToLower(got.Article.Title), "electric vehicles")
	assert.InDelta(t, 800, got.Article.WordCount, 400)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(got.StartTime))

	again := s.do(t, http.MethodGet, "/api/generation-progress/gen-1", nil)
	assert.Equal(t, rec.Body.String(), again.Body.String())
}

func TestCreateGenerationAssignsID(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodPost, "/api/generation-progress", generationBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	started := decode[handler.StartResponse](t, rec)
	require.NotEmpty(t, started.GenerationID)

	s.runner.Wait(started.GenerationID)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/generation-progress/"+started.GenerationID, nil).Code)
}

func TestGenerationNotFound(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodGet, "/api/generation-progress/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Generation not found", errorOf(t, rec))

	rec = s.do(t, http.MethodDelete, "/api/generation-progress/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerationValidation(t *testing.T) {
	s := newServer(t, config.Delays{})

	tests := []struct {
		name string
		body any
		want string
	}{
		{"bad json", "{", "invalid JSON payload"},
		{"missing input", map[string]any{"type": "keyword"}, "Input and type are required"},
		{"missing type", map[string]any{"input": "solar"}, "Input and type are required"},
		{"unknown type", map[string]any{"input": "solar", "type": "podcast"}, "type must be one of: keyword url topic"},
		{"bad url", map[string]any{"input": "not a url", "type": "url"}, "input must be a valid URL for type url"},
		{"word count", map[string]any{"input": "solar", "type": "keyword", "options": map[string]any{"wordCount": 5}}, "wordCount must be at least 100"},
		{"tone", map[string]any{"input": "solar", "type": "keyword", "options": map[string]any{"tone": "sarcastic"}}, "tone must be one of: professional casual authoritative friendly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/generation-progress/v-1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, errorOf(t, rec))
		})
	}
	_, exists := s.progress.Get("v-1")
	assert.False(t, exists)
}

func TestGenerationConflictAndCancel(t *testing.T) {
	s := newServer(t, config.Delays{Init: time.Hour})

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/generation-progress/slow", generationBody).Code)

	rec := s.do(t, http.MethodPost, "/api/generation-progress/slow", generationBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Generation already running", errorOf(t, rec))

	rec = s.do(t, http.MethodDelete, "/api/generation-progress/slow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Generation cancelled", decode[handler.StartResponse](t, rec).Message)

	s.runner.Wait("slow")
	got := decode[model.GenerationRecord](t, s.do(t, http.MethodGet, "/api/generation-progress/slow", nil))
	assert.Equal(t, model.RecordCancelled, got.Status)

	rec = s.do(t, http.MethodDelete, "/api/generation-progress/slow", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Generation is not running", errorOf(t, rec))
}

func TestStartAfterShutdown(t *testing.T) {
	s := newServer(t, config.Delays{})
	require.NoError(t, s.runner.Shutdown(context.Background()))

	rec := s.do(t, http.MethodPost, "/api/generation-progress/late", generationBody)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResearch(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodPost, "/api/research", map[string]string{"query": "solar power"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.ResearchResult](t, rec)
	assert.Contains(t, got.Content, "solar power")
	require.Len(t, got.Sources, 3)
	for _, src := range got.Sources {
		assert.NotEmpty(t, src.URL)
		assert.NotEmpty(t, src.Title)
	}

	rec = s.do(t, http.MethodPost, "/api/research", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "query is required", errorOf(t, rec))
}

func TestGenerate(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodPost, "/api/generate", map[string]any{
		"prompt":    `Write an article about "heat pumps" for homeowners`,
		"wordCount": 800,
		"tone":      "casual",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[model.GenerationResult](t, rec)
	assert.Contains(t, got.Title, "heat pumps")
	assert.Contains(t, got.Content, "<h1>")
	assert.NotEmpty(t, got.MetaDescription)

	rec = s.do(t, http.MethodPost, "/api/generate", map[string]any{"prompt": "x", "tone": "angry"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebSearch(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodPost, "/api/web-search", map[string]string{"query": "wind turbines"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[handler.SearchResponse](t, rec)
	assert.Equal(t, "wind turbines", got.Query)
	assert.True(t, fixedNow.Equal(got.Timestamp))
	assert.NotEmpty(t, got.Results)
	assert.LessOrEqual(t, len(got.Results), 10)

	seen := map[string]bool{}
	for _, r := range got.Results {
		assert.False(t, seen[r.URL], "duplicate %s", r.URL)
		seen[r.URL] = true
	}
}

func TestAutomationRoundTrip(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodPost, "/api/automation", map[string]any{
		"input":   "urban beekeeping",
		"type":    "topic",
		"options": map[string]any{"targetKeywords": []string{"beekeeping"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[handler.AutomationResponse](t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, "Article generation started successfully", created.Message)
	require.NotEmpty(t, created.ArticleID)

	rec = s.do(t, http.MethodGet, "/api/automation?articleId="+created.ArticleID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byArticle := decode[struct {
		Article model.Article `json:"article"`
	}](t, rec)
	assert.Equal(t, []string{"beekeeping"}, byArticle.Article.Keywords)

	rec = s.do(t, http.MethodGet, "/api/automation?requestId="+byArticle.Article.RequestID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byRequest := decode[struct {
		Request model.ContentRequest `json:"request"`
	}](t, rec)
	assert.Equal(t, model.RequestCompleted, byRequest.Request.Status)

	rec = s.do(t, http.MethodGet, "/api/automation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[struct {
		Requests []model.ContentRequest `json:"requests"`
		Articles []model.Article        `json:"articles"`
	}](t, rec)
	assert.Len(t, all.Requests, 1)
	assert.Len(t, all.Articles, 1)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/automation?requestId=nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/automation?articleId=nope", nil).Code)

	rec = s.do(t, http.MethodPost, "/api/automation", map[string]any{"input": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Input and type are required", errorOf(t, rec))
}

func TestExportArticle(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodPost, "/api/automation", map[string]any{"input": "tidal energy", "type": "keyword"})
	require.Equal(t, http.StatusOK, rec.Code)
	articleID := decode[handler.AutomationResponse](t, rec).ArticleID

	rec = s.do(t, http.MethodGet, "/api/articles/"+articleID+"/export?format=markdown", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".md")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "---\n"))

	rec = s.do(t, http.MethodGet, "/api/articles/"+articleID+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodGet, "/api/articles/"+articleID+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/articles/unknown/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found", errorOf(t, rec))
}

func TestExportGenerationArticle(t *testing.T) {
	s := newServer(t, config.Delays{})

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/generation-progress/gen-x", generationBody).Code)
	s.runner.Wait("gen-x")

	rec := s.do(t, http.MethodGet, "/api/articles/gen-x/export?format=json", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[model.Article](t, rec)
	assert.Contains(t, strings.ToLower(got.Title), "electric vehicles")
}

func TestMetricsAndSwagger(t *testing.T) {
	s := newServer(t, config.Delays{})

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "contentflow_pipeline_active_runs")

	rec = s.do(t, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ContentFlow API")
	assert.Contains(t, rec.Body.String(), "/generation-progress/{id}")
}

func TestUnknownRoutes(t *testing.T) {
	s := newServer(t, config.Delays{})
	assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodPut, "/api/research", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/unknown", nil).Code)
}
