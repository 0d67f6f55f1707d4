package seo

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"contentflow/internal/model"
	"contentflow/pkg/utils"
)

const (
	maxScore          = 100
	metaTitleLimit    = 60
	metaDescLimit     = 160
	minWordsForReach  = 500
	longFormWords     = 1000
	longFormChars     = 2000
	densityLowerBound = 1.0
	densityUpperBound = 3.0
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Analyzer scores HTML content for search visibility.
type Analyzer struct{}

// NewAnalyzer returns a ready Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

type heading struct {
	level int
	text  string
}

type document struct {
	raw      string
	text     string
	words    int
	headings []heading
	hasList  bool
	hasPara  bool
}

// Analyze computes the score, keyword density, meta data, suggestions and heading structure of
// content for the given keywords.
func (a *Analyzer) Analyze(content string, keywords []string) model.SEOResult {
	doc := parse(content)

	return model.SEOResult{
		Score:            a.score(doc, keywords),
		MetaTitle:        metaTitle(doc, keywords),
		MetaDescription:  MetaDescription(doc.text),
		KeywordDensity:   KeywordDensity(doc.text, keywords),
		Suggestions:      a.suggestions(doc, keywords),
		HeadingStructure: headingStructure(doc.headings, keywords),
	}
}

// StripHTML removes tags and collapses whitespace.
func StripHTML(content string) string {
	text := tagPattern.ReplaceAllString(content, " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// KeywordDensity returns occurrences of each keyword per hundred words of text.
func KeywordDensity(text string, keywords []string) map[string]float64 {
	density := make(map[string]float64, len(keywords))
	total := utils.CountWords(text)
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if total == 0 {
			density[kw] = 0
			continue
		}
		count := strings.Count(lower, strings.ToLower(kw))
		density[kw] = float64(count) / float64(total) * 100
	}
	return density
}

// MetaDescription trims text to the length search engines display.
func MetaDescription(text string) string {
	return utils.Truncate(strings.TrimSpace(text), metaDescLimit)
}

func parse(content string) document {
	text := StripHTML(content)
	d := document{raw: content, text: text, words: utils.CountWords(text)}

	q, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return d
	}
	q.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		t := strings.TrimSpace(spacePattern.ReplaceAllString(s.Text(), " "))
		if t == "" {
			return
		}
		d.headings = append(d.headings, heading{level: int(name[1] - '0'), text: t})
	})
	d.hasList = q.Find("ul, ol").Length() > 0
	d.hasPara = q.Find("p").Length() > 0
	return d
}

func (a *Analyzer) score(d document, keywords []string) int {
	score := 0

	switch {
	case d.words >= longFormWords:
		score += 30
	case d.words >= minWordsForReach:
		score += 20
	default:
		score += 10
	}

	if hasLevel(d.headings, 1) {
		score += 10
	}
	if hasLevel(d.headings, 2) {
		score += 10
	}

	for _, density := range KeywordDensity(d.text, keywords) {
		switch {
		case density >= densityLowerBound && density <= densityUpperBound:
			score += 10
		case density > 0:
			score += 5
		}
	}

	if d.hasList {
		score += 5
	}
	if d.hasPara {
		score += 5
	}
	if len(d.raw) > longFormChars {
		score += 10
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

func (a *Analyzer) suggestions(d document, keywords []string) []string {
	out := []string{}

	if d.words < minWordsForReach {
		out = append(out, "Consider expanding the content to at least 500 words for better SEO")
	}
	if !hasLevel(d.headings, 1) {
		out = append(out, "Add an H1 heading for better content structure")
	}
	h2 := 0
	for _, h := range d.headings {
		if h.level == 2 {
			h2++
		}
	}
	if h2 < 2 {
		out = append(out, "Add more H2 headings to improve content organization")
	}

	density := KeywordDensity(d.text, keywords)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		switch v := density[kw]; {
		case v == 0:
			out = append(out, fmt.Sprintf("Include the keyword %q in your content", kw))
		case v > densityUpperBound:
			out = append(out, fmt.Sprintf("Reduce keyword density for %q (currently %.1f%%)", kw, v))
		}
	}

	if !d.hasList {
		out = append(out, "Add bullet points or numbered lists to improve readability")
	}
	return out
}

func metaTitle(d document, keywords []string) string {
	for _, h := range d.headings {
		if h.level == 1 {
			return utils.Truncate(h.text, metaTitleLimit)
		}
	}
	primary := "Guide"
	if len(keywords) > 0 && strings.TrimSpace(keywords[0]) != "" {
		primary = strings.TrimSpace(keywords[0])
	}
	return fmt.Sprintf("The Complete %s Guide", primary)
}

func headingStructure(headings []heading, keywords []string) []model.HeadingAnalysis {
	out := make([]model.HeadingAnalysis, 0, len(headings))
	for _, h := range headings {
		lower := strings.ToLower(h.text)
		matched := []string{}
		for _, kw := range keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		out = append(out, model.HeadingAnalysis{Level: h.level, Text: h.text, Keywords: matched})
	}
	return out
}

func hasLevel(headings []heading, level int) bool {
	for _, h := range headings {
		if h.level == level {
			return true
		}
	}
	return false
}
