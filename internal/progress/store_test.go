package progress

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newRecord(id string, now time.Time) *model.GenerationRecord {
	return model.NewGenerationRecord(id, "electric vehicles", model.KindKeyword, model.GenerationOptions{}.WithDefaults(), now)
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(ttl, clock.Now), clock
}

func TestCreateAndGet(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)

	require.NoError(t, s.Create(newRecord("gen-1", clock.Now())))
	err := s.Create(newRecord("gen-1", clock.Now()))
	assert.True(t, errors.Is(err, ErrExists))

	rec, ok := s.Get("gen-1")
	require.True(t, ok)
	assert.Equal(t, model.RecordStarted, rec.Status)
	assert.Equal(t, model.StageActive, rec.Steps[model.StageInit].Status)
	for i := model.StageSearch; i < model.StageCount; i++ {
		assert.Equal(t, model.StagePending, rec.Steps[i].Status)
	}

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestGetReturnsIndependentSnapshot(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	require.NoError(t, s.Create(newRecord("gen-1", clock.Now())))

	snap, _ := s.Get("gen-1")
	snap.Steps[0].Status = model.StageError
	snap.KeyPoints = append(snap.KeyPoints, "mutated")

	again, _ := s.Get("gen-1")
	assert.Equal(t, model.StageActive, again.Steps[0].Status)
	assert.Empty(t, again.KeyPoints)
}

func TestRepeatedReadsSerializeIdentically(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	require.NoError(t, s.Create(newRecord("gen-1", clock.Now())))
	require.NoError(t, s.Apply("gen-1",
		SetField{Field: FieldSEOData, Value: &model.SEOResult{
			Score:          95,
			KeywordDensity: map[string]float64{"b": 1.5, "a": 2.5, "c": 0.1},
			Suggestions:    []string{"Add more internal links"},
		}},
	))

	first, _ := s.Get("gen-1")
	second, _ := s.Get("gen-1")
	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

func TestApplyBatchIsAtomic(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	require.NoError(t, s.Create(newRecord("gen-1", clock.Now())))

	err := s.Apply("gen-1",
		SetStage{Index: 0, Field: StageStatus, Value: model.StageCompleted},
		SetField{Field: FieldCurrentStep, Value: 1},
		SetStage{Index: 9, Field: StageStatus, Value: model.StageActive},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPatch))

	rec, _ := s.Get("gen-1")
	assert.Equal(t, model.StageActive, rec.Steps[0].Status)
	assert.Equal(t, 0, rec.CurrentStep)
}

func TestApplyUnknownID(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	err := s.Apply("nope", SetField{Field: FieldError, Value: "x"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestApplyUpdatesTimestamp(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	require.NoError(t, s.Create(newRecord("gen-1", clock.Now())))

	clock.Advance(3 * time.Second)
	require.NoError(t, s.Apply("gen-1", SetStage{Index: 0, Field: StageDescription, Value: "warming up"}))

	rec, _ := s.Get("gen-1")
	assert.Equal(t, clock.Now(), rec.UpdatedAt)
	assert.Equal(t, "warming up", rec.Steps[0].Description)
}

func TestReduceRejectsWrongTypes(t *testing.T) {
	rec := newRecord("gen-1", time.Now())

	cases := []Patch{
		SetStage{Index: 0, Field: StageStatus, Value: "completed"},
		SetStage{Index: 0, Field: StageProgress, Value: "50"},
		SetStage{Index: 0, Field: StageProgress, Value: 140.0},
		SetStage{Index: 0, Field: "colour", Value: "red"},
		SetField{Field: FieldCurrentStep, Value: "2"},
		SetField{Field: FieldSources, Value: []string{"x"}},
		SetField{Field: FieldCompletedAt, Value: "now"},
		SetField{Field: "unknown", Value: 1},
	}
	for _, p := range cases {
		_, err := Reduce(rec, p)
		assert.ErrorIs(t, err, ErrInvalidPatch, "%#v", p)
	}
}

func TestReduceEnforcesMonotonicProgress(t *testing.T) {
	rec := newRecord("gen-1", time.Now())

	next, err := Reduce(rec, SetField{Field: FieldCurrentStep, Value: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, rec.CurrentStep, "input record is not modified")

	_, err = Reduce(next, SetField{Field: FieldCurrentStep, Value: 1})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	done, err := Reduce(rec, SetStage{Index: 0, Field: StageStatus, Value: model.StageCompleted})
	require.NoError(t, err)
	_, err = Reduce(done, SetStage{Index: 0, Field: StageStatus, Value: model.StageActive})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestReduceClampsRelevanceAndCompletedAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := newRecord("gen-1", start)

	next, err := Reduce(rec, SetField{Field: FieldSources, Value: []model.Source{
		{URL: "https://a", Title: "A", Relevance: 1.4},
		{URL: "https://b", Title: "B", Relevance: -0.2},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, next.Sources[0].Relevance)
	assert.Equal(t, 0.0, next.Sources[1].Relevance)

	next, err = Reduce(next, SetField{Field: FieldCompletedAt, Value: start.Add(-time.Minute)})
	require.NoError(t, err)
	require.NotNil(t, next.CompletedAt)
	assert.False(t, next.CompletedAt.Before(next.StartTime))
}

func TestTerminalStatusIsFinal(t *testing.T) {
	rec := newRecord("gen-1", time.Now())
	done, err := Reduce(rec, SetField{Field: FieldStatus, Value: model.RecordCancelled})
	require.NoError(t, err)

	_, err = Reduce(done, SetField{Field: FieldStatus, Value: model.RecordCompleted})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestSweepEvictsOnlyIdleTerminalRecords(t *testing.T) {
	s, clock := newTestStore(t, time.Minute)

	require.NoError(t, s.Create(newRecord("running", clock.Now())))
	require.NoError(t, s.Create(newRecord("finished", clock.Now())))
	require.NoError(t, s.Apply("finished", SetField{Field: FieldStatus, Value: model.RecordCompleted}))

	assert.Equal(t, 0, s.Sweep(clock.Now().Add(30*time.Second)))

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep(clock.Now()))

	_, ok := s.Get("finished")
	assert.False(t, ok)
	_, ok = s.Get("running")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestSweepDisabledWithoutTTL(t *testing.T) {
	s, clock := newTestStore(t, 0)
	require.NoError(t, s.Create(newRecord("gen-1", clock.Now())))
	require.NoError(t, s.Apply("gen-1", SetField{Field: FieldStatus, Value: model.RecordError}))

	assert.Equal(t, 0, s.Sweep(clock.Now().Add(24*time.Hour)))
}

func TestRunStopsWithContext(t *testing.T) {
	s := New(time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestListAndDelete(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	require.NoError(t, s.Create(newRecord("older", clock.Now())))
	clock.Advance(time.Second)
	require.NoError(t, s.Create(newRecord("newer", clock.Now())))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].ID)

	assert.True(t, s.Delete("older"))
	assert.False(t, s.Delete("older"))
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentApply(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	require.NoError(t, s.Create(newRecord("gen-1", clock.Now())))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Apply("gen-1", SetStage{Index: 1, Field: StageProgress, Value: float64(i)})
			_, _ = s.Get("gen-1")
		}(i)
	}
	wg.Wait()

	rec, _ := s.Get("gen-1")
	require.NotNil(t, rec.Steps[1].Progress)
}
