package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/internal/model"
)

func TestAnalyzeShortArticle(t *testing.T) {
	content := "<h1>Solar Power Guide</h1><h2>Why</h2><p>solar power is great</p><ul><li>x</li></ul>"

	res := NewAnalyzer().Analyze(content, []string{"solar power"})

	// 10 short content, 10 h1, 10 h2, 5 keyword present, 5 list, 5 paragraph
	assert.Equal(t, 45, res.Score)
	assert.Equal(t, "Solar Power Guide", res.MetaTitle)
	assert.InDelta(t, 22.22, res.KeywordDensity["solar power"], 0.01)
	assert.Equal(t, []string{
		"Consider expanding the content to at least 500 words for better SEO",
		"Add more H2 headings to improve content organization",
		`Reduce keyword density for "solar power" (currently 22.2%)`,
	}, res.Suggestions)
	assert.Equal(t, []model.HeadingAnalysis{
		{Level: 1, Text: "Solar Power Guide", Keywords: []string{"solar power"}},
		{Level: 2, Text: "Why", Keywords: []string{}},
	}, res.HeadingStructure)
}

func TestAnalyzeEmptyContent(t *testing.T) {
	res := NewAnalyzer().Analyze("", []string{"wind"})

	assert.Equal(t, 10, res.Score)
	assert.Equal(t, "The Complete wind Guide", res.MetaTitle)
	assert.Equal(t, 0.0, res.KeywordDensity["wind"])
	assert.Len(t, res.Suggestions, 5)
	assert.Contains(t, res.Suggestions, `Include the keyword "wind" in your content`)
	assert.Empty(t, res.HeadingStructure)
}

func TestAnalyzeScoreIsCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<h1>Heat pumps</h1><h2>Basics</h2><h2>Costs</h2><ul><li>a</li></ul>")
	for i := 0; i < 60; i++ {
		b.WriteString("<p>Heat pumps move heat instead of burning fuel, which keeps running costs low for most homes today.</p>")
	}

	res := NewAnalyzer().Analyze(b.String(), []string{"heat pumps", "fuel", "homes", "costs", "heat"})
	assert.LessOrEqual(t, res.Score, 100)
	assert.GreaterOrEqual(t, res.Score, 0)
}

func TestKeywordDensity(t *testing.T) {
	d := KeywordDensity("Go is fun and go is fast", []string{"go", " ", "rust"})

	assert.InDelta(t, 2.0/7*100, d["go"], 0.001)
	assert.Equal(t, 0.0, d["rust"])
	assert.NotContains(t, d, " ")
	assert.Equal(t, map[string]float64{"x": 0}, KeywordDensity("", []string{"x"}))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Title Tom & Jerry", StripHTML("<h1>Title</h1>\n\n<p>Tom &amp; Jerry</p>"))
}

func TestMetaDescription(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := MetaDescription(long)
	assert.LessOrEqual(t, len(got), 160)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", MetaDescription(" short "))
}

func TestStepScorer(t *testing.T) {
	s := DefaultStepScorer()
	require.Len(t, OptimizationSteps, 4)

	assert.Equal(t, 0, s.Running(0))
	assert.Equal(t, 40, s.Running(2))
	assert.Equal(t, 95, s.Score(len(OptimizationSteps)))
	assert.Equal(t, 100, s.Score(10))
	assert.Equal(t, 0, StepScorer{PerStep: -5}.Running(3))
}

func TestReadability(t *testing.T) {
	easy := Readability("The cat sat on the mat. It was a sunny day. We had fun.")
	hard := Readability("Comprehensive organizational transformation necessitates multidimensional implementation methodologies.")

	assert.Greater(t, easy, hard)
	assert.LessOrEqual(t, easy, 100)
	assert.GreaterOrEqual(t, hard, 0)
	assert.Equal(t, 0, Readability("   "))
	assert.Equal(t, 3, countSyllables("Beautiful,"))
	assert.Equal(t, 1, countSyllables("make"))
}
