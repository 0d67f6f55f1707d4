package automation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/internal/content"
	"contentflow/internal/logging"
	"contentflow/internal/model"
	"contentflow/internal/research"
	"contentflow/internal/store"
)

var fixedNow = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

type recordingResearcher struct {
	mu      sync.Mutex
	queries []string
	err     error
	inner   research.Provider
}

func (r *recordingResearcher) Name() string { return "recording" }

func (r *recordingResearcher) Research(ctx context.Context, query string) (model.ResearchResult, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	if r.err != nil {
		return model.ResearchResult{}, r.err
	}
	return r.inner.Research(ctx, query)
}

type failingWriter struct{}

func (failingWriter) Name() string { return "failing" }

func (failingWriter) Generate(context.Context, content.GenerateRequest) (model.GenerationResult, error) {
	return model.GenerationResult{}, errors.New("model overloaded")
}

func newEngine(t *testing.T, researcher research.Provider, writer content.Writer, client *http.Client) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	e := New(researcher, writer, research.NewTopicResolver(client), s, logging.Discard())
	e.now = func() time.Time { return fixedNow }
	return e, s
}

func templateResearcher() *recordingResearcher {
	return &recordingResearcher{inner: &research.TemplateProvider{Now: func() time.Time { return fixedNow }}}
}

func TestProcessRequestKeyword(t *testing.T) {
	researcher := templateResearcher()
	e, _ := newEngine(t, researcher, content.NewTemplateWriter(), nil)
	ctx := context.Background()

	id, err := e.ProcessRequest(ctx, "urban beekeeping", model.KindKeyword, model.GenerationOptions{
		TargetKeywords: []string{"beekeeping", "urban hives"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, []string{"urban beekeeping"}, researcher.queries)

	article, err := e.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, content.TemplateTitle("urban beekeeping"), article.Title)
	assert.Equal(t, []string{"beekeeping", "urban hives"}, article.Keywords)
	assert.Positive(t, article.WordCount)
	assert.Positive(t, article.SEOScore)
	assert.GreaterOrEqual(t, article.ReadabilityScore, 0)
	assert.LessOrEqual(t, article.ReadabilityScore, 100)
	assert.NotEmpty(t, article.MetaDescription)
	assert.Equal(t, fixedNow, article.CreatedAt.UTC())
	require.Len(t, article.Sources, 3)
	for _, s := range article.Sources {
		assert.Equal(t, 0.8, s.Relevance)
	}

	req, err := e.GetRequest(ctx, article.RequestID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestCompleted, req.Status)
	assert.Equal(t, model.DefaultWordCount, req.WordCount)
	assert.Equal(t, model.ToneProfessional, req.Tone)
}

func TestProcessRequestKeywordsDefaultToTopic(t *testing.T) {
	e, _ := newEngine(t, templateResearcher(), content.NewTemplateWriter(), nil)

	id, err := e.ProcessRequest(context.Background(), "  tidal energy ", model.KindTopic, model.GenerationOptions{})
	require.NoError(t, err)

	article, err := e.GetArticle(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"tidal energy"}, article.Keywords)
}

func TestProcessRequestURLUsesPageTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title> Heat Pump Adoption </title></head><body></body></html>`)
	}))
	t.Cleanup(srv.Close)

	researcher := templateResearcher()
	e, _ := newEngine(t, researcher, content.NewTemplateWriter(), srv.Client())
	pageURL := srv.URL + "/blog/heat-pumps"

	id, err := e.ProcessRequest(context.Background(), pageURL, model.KindURL, model.GenerationOptions{})
	require.NoError(t, err)

	require.Len(t, researcher.queries, 1)
	assert.Equal(t, "Heat Pump Adoption "+pageURL+" latest information trends statistics", researcher.queries[0])

	article, err := e.GetArticle(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, content.TemplateTitle("Heat Pump Adoption"), article.Title)

	req, err := e.GetRequest(context.Background(), article.RequestID)
	require.NoError(t, err)
	assert.Equal(t, pageURL, req.Input)
	assert.Equal(t, model.KindURL, req.Type)
}

func TestProcessRequestResearchFailureStillWrites(t *testing.T) {
	researcher := &recordingResearcher{err: errors.New("upstream timeout")}
	e, _ := newEngine(t, researcher, content.NewTemplateWriter(), nil)

	id, err := e.ProcessRequest(context.Background(), "vertical farming", model.KindKeyword, model.GenerationOptions{})
	require.NoError(t, err)

	article, err := e.GetArticle(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, article.Sources)
	assert.NotEmpty(t, article.Content)
}

func TestProcessRequestWriterFailureMarksError(t *testing.T) {
	e, _ := newEngine(t, templateResearcher(), failingWriter{}, nil)
	ctx := context.Background()

	_, err := e.ProcessRequest(ctx, "carbon capture", model.KindKeyword, model.GenerationOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")

	requests, err := e.ListRequests(ctx, 10)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, model.RequestError, requests[0].Status)

	articles, err := e.ListArticles(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestProcessRequestCancelled(t *testing.T) {
	e, _ := newEngine(t, templateResearcher(), content.NewTemplateWriter(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ProcessRequest(ctx, "carbon capture", model.KindKeyword, model.GenerationOptions{})
	require.Error(t, err)
}
