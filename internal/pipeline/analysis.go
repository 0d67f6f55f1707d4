package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"contentflow/internal/model"
	"contentflow/internal/progress"
	"contentflow/internal/research"
)

const maxAnalysisKeyPoints = 5

var analysisSteps = []string{
	"Extracting key insights...",
	"Identifying statistics...",
	"Building content outline...",
	"Validating information...",
}

// analyze derives key points and statistics from the collected research. Both are published
// after every step.
func (r *Runner) analyze(ctx context.Context, g *generation) error {
	text := strings.Join(g.research, "\n")

	for i, step := range analysisSteps {
		if err := r.stepProgress(g, model.StageAnalysis, step, i, len(analysisSteps)); err != nil {
			return err
		}
		if err := sleep(ctx, r.cfg.Delays.Analysis); err != nil {
			return err
		}

		switch i {
		case 1:
			g.keyPoints = AnalysisKeyPoints(len(g.sources), text)
		case 2:
			g.statistics = AnalysisStatistics(text, r.cfg.Now().Year())
		}

		err := r.apply(g,
			progress.SetField{Field: progress.FieldKeyPoints, Value: nonNil(g.keyPoints)},
			progress.SetField{Field: progress.FieldStatistics, Value: nonNil(g.statistics)},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// AnalysisKeyPoints summarises the research: a source count followed by sentences lifted from
// text, or fixed observations when text has none.
func AnalysisKeyPoints(sourceCount int, text string) []string {
	points := []string{fmt.Sprintf("%d high-quality sources analyzed", sourceCount)}

	extracted := research.KeyPoints(text)
	if len(extracted) == 0 {
		return append(points,
			"Market growth rate exceeds industry average",
			"Implementation success rate shows positive trends",
		)
	}
	if len(extracted) > maxAnalysisKeyPoints-1 {
		extracted = extracted[:maxAnalysisKeyPoints-1]
	}
	return append(points, extracted...)
}

// AnalysisStatistics are the figures found in text, or a fixed set when there are none.
func AnalysisStatistics(text string, year int) []string {
	if stats := research.Statistics(text); len(stats) > 0 {
		return stats
	}
	return []string{"85%", "$1.2B", strconv.Itoa(year), "67%", "3.5x"}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
