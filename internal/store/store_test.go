package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestRequestLifecycle(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	req := &model.ContentRequest{
		ID:             "req-1",
		Type:           model.KindKeyword,
		Input:          "solar power",
		TargetKeywords: []string{"solar"},
		WordCount:      800,
		Tone:           model.ToneCasual,
		CreatedAt:      created,
		Status:         model.RequestPending,
	}
	require.NoError(t, s.SaveRequest(ctx, req))
	require.Error(t, s.SaveRequest(ctx, req), "duplicate id")

	require.NoError(t, s.UpdateRequestStatus(ctx, "req-1", model.RequestCompleted))

	got, err := s.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, model.RequestCompleted, got.Status)
	assert.Equal(t, "solar power", got.Input)
	assert.Equal(t, []string{"solar"}, got.TargetKeywords)
	assert.True(t, created.Equal(got.CreatedAt))

	assert.ErrorIs(t, s.UpdateRequestStatus(ctx, "missing", model.RequestError), ErrNotFound)
	_, err = s.GetRequest(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRequestsNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveRequest(ctx, &model.ContentRequest{
			ID: id, Type: model.KindTopic, Input: id, Status: model.RequestPending,
			CreatedAt: created.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.ListRequests(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	two, err := s.ListRequests(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestArticles(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	empty, err := s.ListArticles(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	article := &model.Article{
		ID:        "art-1",
		RequestID: "req-1",
		Title:     "Solar Power Guide",
		Content:   "<h1>Solar</h1>",
		Keywords:  []string{"solar"},
		Sources:   []model.Source{{URL: "https://a.example", Title: "A", Relevance: 0.5}},
		SEOScore:  80,
		CreatedAt: created,
	}
	require.NoError(t, s.SaveArticle(ctx, article))

	article.Title = "Solar Power Guide, revised"
	require.NoError(t, s.SaveArticle(ctx, article))

	got, err := s.GetArticle(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, "Solar Power Guide, revised", got.Title)
	assert.Equal(t, 80, got.SEOScore)
	assert.Equal(t, article.Sources[0].URL, got.Sources[0].URL)

	list, err := s.ListArticles(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.GetArticle(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
