package research

import (
	"regexp"
	"sort"
	"strings"

	"contentflow/internal/model"
)

const (
	maxKeyPoints     = 8
	maxRelatedTopics = 10
	maxStatistics    = 5
	maxQuotes        = 3
	maxInsights      = 3
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordSplit     = regexp.MustCompile(`\W+`)
	statPattern   = regexp.MustCompile(`\$\d+(?:\.\d+)?(?:[BMK]|\s?(?:billion|million))?|\d+(?:\.\d+)?%|\d{1,3}(?:,\d{3})+`)
	quotePattern  = regexp.MustCompile(`"([^"]+)"`)

	commonWords = map[string]bool{
		"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
		"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
		"about": true, "their": true, "there": true, "these": true, "those": true,
		"which": true, "where": true, "while": true, "would": true, "could": true,
	}
)

// Extract breaks research prose into key points, related topics, statistics and quotes.
func Extract(content string, sources []model.Source) model.ResearchData {
	if sources == nil {
		sources = []model.Source{}
	}
	return model.ResearchData{
		Sources:       sources,
		KeyPoints:     KeyPoints(content),
		RelatedTopics: RelatedTopics(content),
		Statistics:    Statistics(content),
		Quotes:        Quotes(content),
	}
}

// KeyPoints returns up to eight sentences of moderate length.
func KeyPoints(content string) []string {
	out := []string{}
	for _, s := range sentences(content) {
		if len(s) > 50 && len(s) < 200 {
			out = append(out, s)
			if len(out) == maxKeyPoints {
				break
			}
		}
	}
	return out
}

// RelatedTopics returns the ten most frequent longer words, most frequent first.
func RelatedTopics(content string) []string {
	counts := map[string]int{}
	order := []string{}
	for _, w := range wordSplit.Split(strings.ToLower(content), -1) {
		if len(w) <= 4 || commonWords[w] || isNumeric(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > maxRelatedTopics {
		order = order[:maxRelatedTopics]
	}
	return order
}

// Statistics returns up to five distinct figures such as percentages and amounts.
func Statistics(content string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range statPattern.FindAllString(content, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) == maxStatistics {
			break
		}
	}
	return out
}

// Quotes returns up to three double-quoted passages between 20 and 200 characters.
func Quotes(content string) []string {
	out := []string{}
	for _, m := range quotePattern.FindAllStringSubmatch(content, -1) {
		if len(m[1]) > 20 && len(m[1]) < 200 {
			out = append(out, m[1])
			if len(out) == maxQuotes {
				break
			}
		}
	}
	return out
}

// Insights returns up to three long sentences that mention topic.
func Insights(content, topic string) []string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	out := []string{}
	if topic == "" {
		return out
	}
	for _, s := range sentences(content) {
		if len(s) > 50 && strings.Contains(strings.ToLower(s), topic) {
			out = append(out, s)
			if len(out) == maxInsights {
				break
			}
		}
	}
	return out
}

func sentences(content string) []string {
	parts := sentenceSplit.Split(content, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Join(strings.Fields(p), " ")
		p = strings.TrimLeft(p, "-* ")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isNumeric(w string) bool {
	for _, r := range w {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
