package seo

// OptimizationSteps are the progress descriptions of the pipeline's SEO stage, in order.
var OptimizationSteps = []string{
	"Analyzing keyword density...",
	"Optimizing meta tags...",
	"Checking readability...",
	"Calculating SEO score...",
}

// BaselineSuggestions are always offered for pipeline articles.
var BaselineSuggestions = []string{
	"Add more internal links",
	"Include relevant images",
	"Optimize heading structure",
}

// StepScorer awards a fixed number of points per completed optimization step plus a final bonus.
type StepScorer struct {
	PerStep int
	Bonus   int
}

// DefaultStepScorer gives 20 points per step and 15 at the end, 95 for the full stage.
func DefaultStepScorer() StepScorer {
	return StepScorer{PerStep: 20, Bonus: 15}
}

// Running is the score after the given number of steps, without the bonus.
func (s StepScorer) Running(steps int) int {
	return clamp(s.PerStep * steps)
}

// Score is the final score once steps optimization steps have run.
func (s StepScorer) Score(steps int) int {
	return clamp(s.PerStep*steps + s.Bonus)
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > maxScore:
		return maxScore
	default:
		return v
	}
}
