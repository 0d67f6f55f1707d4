package content

import (
	"fmt"
	"regexp"
	"strings"

	"contentflow/internal/model"
)

// DefaultTopic is used when no meaningful word can be found in a prompt.
const DefaultTopic = "Technology"

var (
	quotedTopic = regexp.MustCompile(`"([^"]{2,120})"`)

	promptStopWords = map[string]bool{
		"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
		"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
		"about": true, "write": true, "article": true,
	}
)

// BuildPrompt renders the writer prompt for input using collected research.
func BuildPrompt(input string, opts model.GenerationOptions, research model.ResearchData) string {
	opts = opts.WithDefaults()

	sources := make([]string, 0, len(research.Sources))
	for _, s := range research.Sources {
		sources = append(sources, fmt.Sprintf("%s: %s", s.Title, s.Excerpt))
	}
	keywords := input
	if len(opts.TargetKeywords) > 0 {
		keywords = strings.Join(opts.TargetKeywords, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a comprehensive, well-researched blog article about %q.\n\n", input)
	b.WriteString("RESEARCH DATA:\nKey Points:\n")
	for _, kp := range research.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", kp)
	}
	fmt.Fprintf(&b, "\nStatistics: %s\n\n", strings.Join(research.Statistics, ", "))
	if len(research.Quotes) > 0 {
		b.WriteString("Quotes:\n")
		for _, q := range research.Quotes {
			fmt.Fprintf(&b, "- %q\n", q)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Sources:\n%s\n\n", strings.Join(sources, "\n"))
	b.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Word count: %d words\n", opts.WordCount)
	fmt.Fprintf(&b, "- Tone: %s\n", opts.Tone)
	b.WriteString("- Include proper headings (H1, H2, H3)\n")
	b.WriteString("- Make it SEO-optimized with natural keyword usage\n")
	b.WriteString("- Include factual information and statistics\n")
	b.WriteString("- Add a compelling introduction and conclusion\n")
	b.WriteString("- Use bullet points and numbered lists where appropriate\n")
	b.WriteString("- Ensure content is original and engaging\n\n")
	fmt.Fprintf(&b, "TARGET KEYWORDS: %s\n\n", keywords)
	b.WriteString(`Format the response as JSON with:
{
  "title": "Article Title",
  "content": "Full article content with HTML formatting",
  "metaDescription": "150-character meta description"
}
`)
	return b.String()
}

// MainTopic picks the subject of a prompt: the first quoted phrase if there is one, otherwise the
// first word longer than three letters that is not a stop word.
func MainTopic(prompt string) string {
	if m := quotedTopic.FindStringSubmatch(prompt); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	for _, w := range strings.Fields(prompt) {
		w = strings.Trim(w, ".,;:!?()[]{}'\"")
		if len(w) > 3 && !promptStopWords[strings.ToLower(w)] {
			return w
		}
	}
	return DefaultTopic
}
