package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"contentflow/internal/config"
	"contentflow/internal/content"
	"contentflow/internal/model"
	"contentflow/internal/observability"
	"contentflow/internal/progress"
	"contentflow/internal/research"
	"contentflow/internal/seo"
)

var (
	// ErrAlreadyRunning is returned when a generation id is started twice.
	ErrAlreadyRunning = errors.New("generation already running")
	// ErrClosed is returned by Start after Shutdown.
	ErrClosed = errors.New("pipeline shut down")
)

// CancelledMessage is the error stored on a cancelled generation.
const CancelledMessage = "generation cancelled"

// Archiver keeps finished articles after their progress record is gone.
type Archiver interface {
	SaveArticle(ctx context.Context, article *model.Article) error
}

// Config tunes a Runner.
type Config struct {
	Delays  config.Delays
	Archive Archiver
	Now     func() time.Time
}

// Runner drives generations through the six stages, one goroutine per generation.
type Runner struct {
	store      *progress.Store
	researcher research.Provider
	writer     content.Writer
	scorer     seo.StepScorer
	analyzer   *seo.Analyzer
	cfg        Config
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu     sync.Mutex
	runs   map[string]*handle
	closed bool
	wg     sync.WaitGroup
}

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// generation is the working state of one run. Only its own goroutine touches it.
type generation struct {
	id      string
	input   string
	kind    model.InputKind
	opts    model.GenerationOptions
	current int
	logger  *slog.Logger

	sources    []model.Source
	research   []string
	keyPoints  []string
	statistics []string
	article    *model.Article
}

// NewRunner wires the stages. writer may be nil, in which case the long-form template is the
// article; a writer failure also falls back to it.
func NewRunner(
	store *progress.Store,
	researcher research.Provider,
	writer content.Writer,
	scorer seo.StepScorer,
	cfg Config,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Runner {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:      store,
		researcher: researcher,
		writer:     writer,
		scorer:     scorer,
		analyzer:   seo.NewAnalyzer(),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger.With("component", "pipeline"),
		runs:       make(map[string]*handle),
	}
}

// Start creates the progress record for id and runs the pipeline in the background. A finished
// record under the same id is replaced. The run outlives ctx's cancellation but keeps its values.
func (r *Runner) Start(ctx context.Context, id, input string, kind model.InputKind, opts model.GenerationOptions) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("generation id is required")
	}
	opts = opts.WithDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if _, running := r.runs[id]; running {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, id)
	}

	r.store.Delete(id)
	rec := model.NewGenerationRecord(id, input, kind, opts, r.cfg.Now())
	if err := r.store.Create(rec); err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h := &handle{cancel: cancel, done: make(chan struct{})}
	r.runs[id] = h
	r.wg.Add(1)
	r.metrics.RunStarted()

	g := &generation{
		id:     id,
		input:  input,
		kind:   kind,
		opts:   opts,
		logger: r.logger.With("generation_id", id),
	}
	go r.run(runCtx, h, g)

	g.logger.Info("generation started", "input", input, "type", kind, "word_count", opts.WordCount)
	return nil
}

// Cancel stops an in-flight generation and reports whether one was running.
func (r *Runner) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.runs[id]
	if ok {
		h.cancel()
	}
	return ok
}

// Running reports whether a generation with id is in flight.
func (r *Runner) Running(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.runs[id]
	return ok
}

// Wait blocks until the generation with id has finished. It returns at once for unknown ids.
func (r *Runner) Wait(id string) {
	r.mu.Lock()
	h, ok := r.runs[id]
	r.mu.Unlock()
	if ok {
		<-h.done
	}
}

// Shutdown cancels every in-flight generation and waits for them to record their outcome.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	for _, h := range r.runs {
		h.cancel()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) run(ctx context.Context, h *handle, g *generation) {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		delete(r.runs, g.id)
		r.mu.Unlock()
		h.cancel()
		close(h.done)
	}()

	t := newTracker(g.id, r.metrics, r.cfg.Now)
	err := r.execute(ctx, g, t)

	switch {
	case err == nil:
		t.Complete(model.RecordCompleted)
		g.logger.Info("generation completed", "duration", t.Elapsed())
	case ctx.Err() != nil:
		r.fail(g, model.RecordCancelled, CancelledMessage)
		t.Complete(model.RecordCancelled)
		g.logger.Info("generation cancelled", "stage", stageID(g.current))
	default:
		r.fail(g, model.RecordError, err.Error())
		t.Complete(model.RecordError)
		g.logger.Error("generation failed", "stage", stageID(g.current), "error", err)
	}
}

type stageFunc func(ctx context.Context, g *generation) error

func (r *Runner) stages() []stageFunc {
	return []stageFunc{
		r.initialize,
		r.research,
		r.analyze,
		r.generate,
		r.optimize,
		r.complete,
	}
}

// execute runs every stage in order and converts a panic into an error of the current stage.
func (r *Runner) execute(ctx context.Context, g *generation, t *tracker) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in %s stage: %v", stageID(g.current), p)
			t.EndStage(g.current, model.StageError)
		}
	}()

	for i, stage := range r.stages() {
		t.StartStage(i)
		if err := stage(ctx, g); err != nil {
			t.EndStage(i, model.StageError)
			return err
		}
		if err := ctx.Err(); err != nil {
			t.EndStage(i, model.StageError)
			return err
		}
		if err := r.advance(g, i); err != nil {
			t.EndStage(i, model.StageError)
			return err
		}
		t.EndStage(i, model.StageCompleted)
	}
	return nil
}

// advance completes stage i and activates the next one, or finishes the record after the last.
func (r *Runner) advance(g *generation, i int) error {
	if i == model.StageCount-1 {
		return r.apply(g,
			progress.SetStage{Index: i, Field: progress.StageStatus, Value: model.StageCompleted},
			progress.SetField{Field: progress.FieldStatus, Value: model.RecordCompleted},
			progress.SetField{Field: progress.FieldCompletedAt, Value: r.cfg.Now()},
		)
	}

	err := r.apply(g,
		progress.SetStage{Index: i, Field: progress.StageStatus, Value: model.StageCompleted},
		progress.SetField{Field: progress.FieldCurrentStep, Value: i + 1},
		progress.SetStage{Index: i + 1, Field: progress.StageStatus, Value: model.StageActive},
	)
	if err != nil {
		return err
	}
	g.current = i + 1
	return nil
}

// fail marks the current stage as errored and stores the terminal status.
func (r *Runner) fail(g *generation, status model.RecordStatus, msg string) {
	err := r.apply(g,
		progress.SetStage{Index: g.current, Field: progress.StageStatus, Value: model.StageError},
		progress.SetField{Field: progress.FieldStatus, Value: status},
		progress.SetField{Field: progress.FieldError, Value: msg},
	)
	if err != nil {
		g.logger.Error("record failure", "status", status, "error", err)
	}
}

// apply writes patches to the record. Updates to an evicted record are dropped.
func (r *Runner) apply(g *generation, patches ...progress.Patch) error {
	err := r.store.Apply(g.id, patches...)
	if errors.Is(err, progress.ErrNotFound) {
		g.logger.Debug("record evicted, dropping update")
		return nil
	}
	return err
}

// stepProgress patches the description and progress of stage for step i of n.
func (r *Runner) stepProgress(g *generation, stage int, desc string, i, n int) error {
	return r.apply(g,
		progress.SetStage{Index: stage, Field: progress.StageDescription, Value: desc},
		progress.SetStage{Index: stage, Field: progress.StageProgress, Value: float64(i+1) / float64(n) * 100},
	)
}

func (r *Runner) initialize(ctx context.Context, _ *generation) error {
	return sleep(ctx, r.cfg.Delays.Init)
}

// complete archives the finished article. An archive failure does not fail the generation.
func (r *Runner) complete(ctx context.Context, g *generation) error {
	if r.cfg.Archive == nil || g.article == nil {
		return nil
	}
	if err := r.cfg.Archive.SaveArticle(ctx, g.article); err != nil {
		g.logger.Warn("archive article", "article_id", g.article.ID, "error", err)
	}
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stageID(i int) string {
	stages := model.DefaultStages()
	if i < 0 || i >= len(stages) {
		return fmt.Sprintf("stage-%d", i)
	}
	return stages[i].ID
}
