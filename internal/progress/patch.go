package progress

import (
	"errors"
	"fmt"
	"time"

	"contentflow/internal/model"
)

// ErrInvalidPatch is returned when a patch does not fit the record.
var ErrInvalidPatch = errors.New("invalid patch")

// StageField names a mutable field of a stage.
type StageField string

const (
	StageStatus      StageField = "status"
	StageDescription StageField = "description"
	StageProgress    StageField = "progress"
)

// Field names a mutable top-level field of a generation record.
type Field string

const (
	FieldCurrentStep    Field = "currentStep"
	FieldStatus         Field = "status"
	FieldError          Field = "error"
	FieldSources        Field = "sources"
	FieldKeyPoints      Field = "keyPoints"
	FieldStatistics     Field = "statistics"
	FieldArticlePreview Field = "articlePreview"
	FieldArticle        Field = "article"
	FieldSEOData        Field = "seoData"
	FieldCompletedAt    Field = "completedAt"
)

// Patch is a single typed update to a generation record.
type Patch interface {
	apply(rec *model.GenerationRecord) error
}

// SetStage updates one field of the stage at Index.
type SetStage struct {
	Index int
	Field StageField
	Value any
}

// SetField updates one top-level field.
type SetField struct {
	Field Field
	Value any
}

// Reduce returns a copy of rec with p applied. rec itself is never modified.
func Reduce(rec *model.GenerationRecord, p Patch) (*model.GenerationRecord, error) {
	next := rec.Clone()
	if err := p.apply(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (p SetStage) apply(rec *model.GenerationRecord) error {
	if p.Index < 0 || p.Index >= len(rec.Steps) {
		return fmt.Errorf("%w: stage index %d out of range", ErrInvalidPatch, p.Index)
	}
	stage := &rec.Steps[p.Index]

	switch p.Field {
	case StageStatus:
		status, ok := p.Value.(model.StageStatus)
		if !ok {
			return typeError(string(p.Field), "model.StageStatus", p.Value)
		}
		if !stageTransitionAllowed(stage.Status, status) {
			return fmt.Errorf("%w: stage %q cannot go from %s to %s", ErrInvalidPatch, stage.ID, stage.Status, status)
		}
		stage.Status = status
	case StageDescription:
		desc, ok := p.Value.(string)
		if !ok {
			return typeError(string(p.Field), "string", p.Value)
		}
		stage.Description = desc
	case StageProgress:
		pct, ok := toFloat(p.Value)
		if !ok {
			return typeError(string(p.Field), "number", p.Value)
		}
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: progress %v outside 0..100", ErrInvalidPatch, pct)
		}
		stage.Progress = &pct
	default:
		return fmt.Errorf("%w: unknown stage field %q", ErrInvalidPatch, p.Field)
	}
	return nil
}

func (p SetField) apply(rec *model.GenerationRecord) error {
	switch p.Field {
	case FieldCurrentStep:
		step, ok := p.Value.(int)
		if !ok {
			return typeError(string(p.Field), "int", p.Value)
		}
		if step < rec.CurrentStep || step >= len(rec.Steps) {
			return fmt.Errorf("%w: current step cannot move from %d to %d", ErrInvalidPatch, rec.CurrentStep, step)
		}
		rec.CurrentStep = step
	case FieldStatus:
		status, ok := p.Value.(model.RecordStatus)
		if !ok {
			return typeError(string(p.Field), "model.RecordStatus", p.Value)
		}
		if rec.Status.Terminal() && status != rec.Status {
			return fmt.Errorf("%w: record already %s", ErrInvalidPatch, rec.Status)
		}
		rec.Status = status
	case FieldError:
		msg, ok := p.Value.(string)
		if !ok {
			return typeError(string(p.Field), "string", p.Value)
		}
		rec.Error = msg
	case FieldSources:
		sources, ok := p.Value.([]model.Source)
		if !ok {
			return typeError(string(p.Field), "[]model.Source", p.Value)
		}
		rec.Sources = append([]model.Source{}, sources...)
		for i := range rec.Sources {
			rec.Sources[i].Relevance = model.ClampRelevance(rec.Sources[i].Relevance)
			rec.Sources[i].KeyPoints = append([]string(nil), rec.Sources[i].KeyPoints...)
		}
	case FieldKeyPoints:
		points, ok := p.Value.([]string)
		if !ok {
			return typeError(string(p.Field), "[]string", p.Value)
		}
		rec.KeyPoints = append([]string{}, points...)
	case FieldStatistics:
		stats, ok := p.Value.([]string)
		if !ok {
			return typeError(string(p.Field), "[]string", p.Value)
		}
		rec.Statistics = append([]string{}, stats...)
	case FieldArticlePreview:
		preview, ok := p.Value.(string)
		if !ok {
			return typeError(string(p.Field), "string", p.Value)
		}
		rec.ArticlePreview = preview
	case FieldArticle:
		article, ok := p.Value.(*model.Article)
		if !ok {
			return typeError(string(p.Field), "*model.Article", p.Value)
		}
		rec.Article = article.Clone()
	case FieldSEOData:
		seo, ok := p.Value.(*model.SEOResult)
		if !ok {
			return typeError(string(p.Field), "*model.SEOResult", p.Value)
		}
		rec.SEOData = seo.Clone()
	case FieldCompletedAt:
		at, ok := p.Value.(time.Time)
		if !ok {
			return typeError(string(p.Field), "time.Time", p.Value)
		}
		if at.Before(rec.StartTime) {
			at = rec.StartTime
		}
		rec.CompletedAt = &at
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidPatch, p.Field)
	}
	return nil
}

// stageTransitionAllowed enforces pending -> active -> completed|error, each at most once.
func stageTransitionAllowed(from, to model.StageStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case model.StagePending:
		return to == model.StageActive || to == model.StageError
	case model.StageActive:
		return to == model.StageCompleted || to == model.StageError
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func typeError(field, want string, got any) error {
	return fmt.Errorf("%w: %s wants %s, got %T", ErrInvalidPatch, field, want, got)
}
