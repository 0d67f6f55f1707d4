package model

import "time"

// StageStatus is the lifecycle state of a single pipeline stage
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageActive    StageStatus = "active"
	StageCompleted StageStatus = "completed"
	StageError     StageStatus = "error"
)

// RecordStatus is the overall state of a generation
type RecordStatus string

const (
	RecordStarted   RecordStatus = "started"
	RecordCompleted RecordStatus = "completed"
	RecordError     RecordStatus = "error"
	RecordCancelled RecordStatus = "cancelled"
)

// Terminal reports whether no further stage will run for the record
func (s RecordStatus) Terminal() bool {
	return s == RecordCompleted || s == RecordError || s == RecordCancelled
}

// Stage indices of the fixed pipeline
const (
	StageInit = iota
	StageSearch
	StageAnalysis
	StageGeneration
	StageSEO
	StageCompletion

	StageCount
)

// Stage represents one step of the generation pipeline
type Stage struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Status      StageStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	Progress    *float64    `json:"progress,omitempty"` // 0-100
}

// DefaultStages returns the six stages in execution order, all pending
func DefaultStages() []Stage {
	return []Stage{
		{ID: "init", Title: "Initializing Research", Status: StagePending},
		{ID: "search", Title: "Web Research", Status: StagePending},
		{ID: "analysis", Title: "Content Analysis", Status: StagePending},
		{ID: "generation", Title: "Content Generation", Status: StagePending},
		{ID: "seo", Title: "SEO Optimization", Status: StagePending},
		{ID: "completion", Title: "Finalizing", Status: StagePending},
	}
}

// GenerationRecord is the progress document polled by clients
type GenerationRecord struct {
	ID             string            `json:"id"`
	Input          string            `json:"input"`
	Type           InputKind         `json:"type"`
	Options        GenerationOptions `json:"options"`
	StartTime      time.Time         `json:"startTime"`
	CurrentStep    int               `json:"currentStep"`
	Steps          []Stage           `json:"steps"`
	Sources        []Source          `json:"sources"`
	KeyPoints      []string          `json:"keyPoints"`
	Statistics     []string          `json:"statistics"`
	ArticlePreview string            `json:"articlePreview,omitempty"`
	Article        *Article          `json:"article,omitempty"`
	SEOData        *SEOResult        `json:"seoData,omitempty"`
	Status         RecordStatus      `json:"status"`
	Error          string            `json:"error,omitempty"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// NewGenerationRecord builds the initial record: first stage active, the rest pending
func NewGenerationRecord(id, input string, kind InputKind, opts GenerationOptions, now time.Time) *GenerationRecord {
	steps := DefaultStages()
	steps[StageInit].Status = StageActive

	return &GenerationRecord{
		ID:          id,
		Input:       input,
		Type:        kind,
		Options:     opts,
		StartTime:   now,
		CurrentStep: StageInit,
		Steps:       steps,
		Sources:     []Source{},
		KeyPoints:   []string{},
		Statistics:  []string{},
		Status:      RecordStarted,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy safe to hand out to readers
func (r *GenerationRecord) Clone() *GenerationRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Options = r.Options.Clone()

	c.Steps = make([]Stage, len(r.Steps))
	for i, s := range r.Steps {
		if s.Progress != nil {
			p := *s.Progress
			s.Progress = &p
		}
		c.Steps[i] = s
	}

	c.Sources = cloneSources(r.Sources)
	c.KeyPoints = append([]string{}, r.KeyPoints...)
	c.Statistics = append([]string{}, r.Statistics...)

	if r.Article != nil {
		c.Article = r.Article.Clone()
	}
	if r.SEOData != nil {
		c.SEOData = r.SEOData.Clone()
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
