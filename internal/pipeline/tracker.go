package pipeline

import (
	"sync"
	"time"

	"contentflow/internal/model"
	"contentflow/internal/observability"
)

// StageMetrics is the timing of one stage of a run.
type StageMetrics struct {
	Stage     string            `json:"stage"`
	StartTime time.Time         `json:"start_time"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
	Duration  time.Duration     `json:"duration,omitempty"`
	Status    model.StageStatus `json:"status"`
}

// RunMetrics is the timing of a whole run.
type RunMetrics struct {
	ID        string             `json:"id"`
	StartTime time.Time          `json:"start_time"`
	EndTime   *time.Time         `json:"end_time,omitempty"`
	Duration  time.Duration      `json:"duration,omitempty"`
	Status    model.RecordStatus `json:"status"`
	Stages    []StageMetrics     `json:"stages"`
}

// tracker times the stages of one run and reports them to Prometheus.
type tracker struct {
	mu      sync.RWMutex
	run     RunMetrics
	metrics *observability.Metrics
	now     func() time.Time
}

func newTracker(id string, metrics *observability.Metrics, now func() time.Time) *tracker {
	stages := model.DefaultStages()
	run := RunMetrics{
		ID:        id,
		StartTime: now(),
		Status:    model.RecordStarted,
		Stages:    make([]StageMetrics, len(stages)),
	}
	for i, s := range stages {
		run.Stages[i] = StageMetrics{Stage: s.ID, Status: model.StagePending}
	}
	return &tracker{run: run, metrics: metrics, now: now}
}

// StartStage marks stage i as running.
func (t *tracker) StartStage(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.run.Stages) {
		return
	}
	t.run.Stages[i].StartTime = t.now()
	t.run.Stages[i].Status = model.StageActive
}

// EndStage records the outcome and duration of stage i. Only stages that started are observed,
// and each at most once.
func (t *tracker) EndStage(i int, status model.StageStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.run.Stages) {
		return
	}
	s := &t.run.Stages[i]
	if s.StartTime.IsZero() || s.EndTime != nil {
		return
	}
	end := t.now()
	s.EndTime = &end
	s.Duration = end.Sub(s.StartTime)
	s.Status = status
	t.metrics.ObserveStage(s.Stage, s.Duration)
}

// Complete closes the run with its final status.
func (t *tracker) Complete(status model.RecordStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	end := t.now()
	t.run.EndTime = &end
	t.run.Duration = end.Sub(t.run.StartTime)
	t.run.Status = status
	t.metrics.RunFinished(string(status))
}

// Elapsed is the run duration so far, or the total once completed.
func (t *tracker) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.run.EndTime != nil {
		return t.run.Duration
	}
	return t.now().Sub(t.run.StartTime)
}

// Snapshot returns a copy of the collected timings.
func (t *tracker) Snapshot() RunMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := t.run
	out.Stages = append([]StageMetrics(nil), t.run.Stages...)
	return out
}
