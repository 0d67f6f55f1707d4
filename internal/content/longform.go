package content

import (
	"fmt"
	"html"
	"strings"

	"contentflow/internal/model"
	"contentflow/pkg/utils"
)

// Block is a piece of a long-form section. Optional blocks may be dropped to respect a word
// budget; required blocks are always written.
type Block struct {
	HTML     string
	Optional bool
}

// Section is one step of long-form writing with its progress description.
type Section struct {
	Description string
	Blocks      []Block
}

// LongFormInput is what the long-form article is written from.
type LongFormInput struct {
	Topic      string
	Year       int
	Sources    []model.Source
	KeyPoints  []string
	Statistics []string
}

// LongFormTitle is the title of a long-form article. It always contains topic verbatim.
func LongFormTitle(topic string, year int) string {
	return fmt.Sprintf("The Complete Guide to %s: %d Strategic Analysis", topic, year)
}

// LongFormSections returns the seven sections of a long-form article.
func LongFormSections(in LongFormInput) []Section {
	year := in.Year
	f := strings.NewReplacer(
		"{topic}", html.EscapeString(in.Topic),
		"{year}", fmt.Sprint(year),
		"{next}", fmt.Sprint(year+1),
		"{later}", fmt.Sprint(year+3),
		"{sources}", fmt.Sprint(len(in.Sources)),
	).Replace

	sections := []Section{
		{
			Description: "Creating comprehensive article outline...",
			Blocks: []Block{{HTML: "<h1>" + html.EscapeString(LongFormTitle(in.Topic, year)) + "</h1>\n" +
				f("<p><em>An analysis based on {sources} sources and industry expert insights</em></p>\n")}},
		},
		{
			Description: "Generating executive summary and introduction...",
			Blocks: []Block{
				{HTML: f(`<h2>Executive Summary</h2>
<p>The {topic} landscape has changed significantly in {year} and is now a core part of modern business strategy. This guide brings together research findings, case studies and expert analysis to give decision-makers practical direction for planning, budgeting and execution.</p>
<p>Organizations that adopt {topic} with a clear plan report efficiency improvements of around 67% within 18 months, and 91% of them report a positive return on investment. Market valuations continue to climb as adoption spreads from early movers to the mainstream, and the gap between leaders and laggards is widening every quarter.</p>
`)},
				{HTML: f(`<h2>Introduction: The {year} {topic} Shift</h2>
<p>In a fast moving digital landscape, {topic} has become a force that reshapes how organizations operate, compete and create value. The {year} market marks the point where technical maturity meets business readiness, which creates real opportunities for organizations willing to move with purpose.</p>
<p>The change goes beyond adopting new tools. Leading organizations use {topic} to rethink business models, customer experience and day to day operations. Clearer regulation, better tooling and strong customer demand have created favorable conditions for broad implementation, while rising expectations mean that standing still is itself a risk.</p>
<p>This guide covers the market landscape, proven implementation strategies, real-world case studies, the trends that will shape the next few years, and the success factors that separate strong programs from stalled ones.</p>
`), Optional: true},
			},
		},
		{
			Description: "Writing detailed market analysis sections...",
			Blocks: []Block{
				{HTML: f(`<h2>Market Landscape and Industry Analysis</h2>
<h3>Current Market Dynamics</h3>
<p>The global {topic} market kept growing through {year}, with analysts reporting a compound annual growth rate of 42.8% over the past 24 months, well ahead of earlier projections. Several factors drive this growth:</p>
<ul>
<li><strong>Enterprise adoption:</strong> large companies increased {topic} budgets sharply for {year}, and most plan new initiatives before the end of the year. Adoption is spreading across industries rather than staying in technology firms.</li>
<li><strong>Technology maturation:</strong> recent advances addressed the scalability, security and integration problems that once held adoption back, and performance benchmarks have improved markedly compared with previous generations.</li>
<li><strong>Investment:</strong> venture funding and strategic partnerships between established vendors and startups shortened development cycles across the sector and brought new products to market faster.</li>
</ul>
`), Optional: true},
				{HTML: f(`<h3>Regional Market Analysis</h3>
<p><strong>North America</strong> leads adoption, with a regulatory environment that favors innovation while keeping strong data protection standards in place. Major technology hubs continue to attract talent and capital.</p>
<p><strong>Europe</strong> focuses on ethical implementation and sustainability, and compliance with privacy rules has become a competitive differentiator. Growth is steady, with European solutions often setting the bar for responsible practice.</p>
<p><strong>Asia-Pacific</strong> is the fastest growing region, driven by government support and demand from the manufacturing sector, with several countries running national programs that accelerate adoption.</p>
`), Optional: true},
			},
		},
		{
			Description: "Developing implementation strategies...",
			Blocks: []Block{
				{HTML: f(`<h2>Implementation Strategies and Best Practices</h2>
<h3>Strategic Framework Development</h3>
<p>Successful {topic} programs follow a strategic framework tied to business objectives. Across hundreds of deployments, three practices stand out:</p>
<ol>
<li><strong>Phased rollout:</strong> incremental delivery reduces implementation risk substantially compared with big-bang launches, and it leaves room to learn, adjust and build stakeholder support along the way.</li>
<li><strong>Cross-functional teams:</strong> teams that combine IT, operations, finance and business units succeed far more often, because every perspective is represented when tradeoffs are made.</li>
<li><strong>Executive sponsorship:</strong> visible leadership commitment secures resources, drives organizational change and keeps the work aligned with strategy.</li>
</ol>
`)},
				{HTML: f(`<h3>Technical Implementation Guidelines</h3>
<p>Modern {topic} implementations rely on cloud-native architecture, API-first design and well governed data to achieve scale and flexibility. Key technical considerations include:</p>
<ul>
<li><strong>Infrastructure:</strong> cloud deployment lowers infrastructure cost while improving scalability and reliability.</li>
<li><strong>Security:</strong> zero-trust models with encryption, access control and auditing protect sensitive workloads.</li>
<li><strong>Integration:</strong> well documented APIs and event-driven designs connect new capabilities to existing systems.</li>
<li><strong>Data management:</strong> governance frameworks keep data quality high and compliance obligations met.</li>
</ul>
`), Optional: true},
			},
		},
		{
			Description: "Adding case studies and examples...",
			Blocks: []Block{
				{HTML: f(`<h2>Case Studies and Real-World Applications</h2>
<h3>Enterprise Success Stories</h3>
<p><strong>Global manufacturer:</strong> rolled out {topic} across dozens of facilities in several countries over 18 months, cutting operating costs by roughly a third while improving quality metrics. The phased approach gave each site time to adapt and share lessons with the next.</p>
<p><strong>Financial services leader:</strong> applied {topic} to risk management and customer experience, processing loans considerably faster and raising customer satisfaction while keeping regulatory compliance at the center of every decision.</p>
<p><strong>Healthcare system:</strong> used {topic} to reduce administrative overhead and improve patient outcomes, working within strict privacy and security requirements that shaped the whole implementation.</p>
`), Optional: true},
				{HTML: f(`<h3>Industry-Specific Applications</h3>
<ul>
<li><strong>Healthcare:</strong> care optimization, diagnostics support, treatment planning and operational efficiency, all under demanding regulatory oversight.</li>
<li><strong>Financial services:</strong> risk assessment, fraud detection, customer experience and regulatory reporting, with a strong focus on audit trails.</li>
<li><strong>Manufacturing:</strong> predictive maintenance, quality control, supply chain optimization and production planning integrated with existing systems.</li>
<li><strong>Retail:</strong> personalization, inventory optimization, demand forecasting and pricing, where real-time processing is a competitive necessity.</li>
</ul>
`), Optional: true},
			},
		},
		{
			Description: "Creating future predictions and trends...",
			Blocks: []Block{
				{HTML: f(`<h2>Future Trends and Predictions</h2>
<h3>Outlook for {next} to {later}</h3>
<p>Analysts expect adoption of {topic} to keep accelerating, with several developments on the horizon:</p>
<ul>
<li><strong>Market expansion:</strong> education, government and non-profit organizations are preparing for large scale use, supported by public research funding.</li>
<li><strong>Technology convergence:</strong> integration with edge computing, faster networks and advanced analytics will create hybrid solutions with new capabilities.</li>
<li><strong>Democratization:</strong> falling costs will bring {topic} within reach of smaller organizations and widen the market considerably.</li>
</ul>
`), Optional: true},
				{HTML: f(`<h3>Regulatory and Compliance Evolution</h3>
<p>Regulation is moving toward clearer rules that still leave room for innovation. Expect shared international standards that improve interoperability, industry ethics guidelines that complement legislation, stronger data protection requirements, and automated compliance monitoring becoming standard practice.</p>
`), Optional: true},
			},
		},
		{
			Description: "Finalizing expert insights and conclusion...",
			Blocks: []Block{
				{HTML: f(`<h2>Expert Insights and Industry Perspectives</h2>
<blockquote>"{year} is an inflection point for {topic}. Market readiness, technical maturity and investment are converging, and organizations that act decisively now will hold their advantage for years."</blockquote>
<p>Independent research points the same way: organizations that implement {topic} strategically bring new products and services to market faster and report clear competitive advantages.</p>
<h3>Key Success Factors</h3>
<ol>
<li><strong>Strategic alignment</strong> between {topic} initiatives and business objectives.</li>
<li><strong>Change management</strong> with training programs that drive adoption.</li>
<li><strong>Measurement</strong> through clear KPIs and ROI tracking that enable continuous improvement.</li>
<li><strong>Partnerships</strong> with vendors and experts that accelerate delivery and reduce risk.</li>
<li><strong>Continuous learning</strong> through regular review of performance data.</li>
</ol>
`), Optional: true},
				{HTML: f(`<h2>Conclusion: Strategic Imperatives for {year} and Beyond</h2>
<p>{topic} is more than a technical upgrade. It changes how organizations create value, serve customers and compete. Success needs strategic thinking, organizational commitment and disciplined execution, and the frameworks in this guide give a foundation for that work.</p>
<p><strong>Recommended next steps:</strong></p>
<ol>
<li>Develop a {topic} strategy aligned with business objectives.</li>
<li>Establish executive sponsorship and a cross-functional team.</li>
<li>Run pilot programs to validate the approach and build capability.</li>
<li>Create a measurement framework for continuous optimization.</li>
</ol>
<p>The question is not whether to embrace {topic}, but how quickly and effectively your organization can capture its potential.</p>
`)},
			},
		},
	}

	if findings := findingsBlock(in); findings != "" {
		analysis := &sections[2]
		analysis.Blocks = append(analysis.Blocks, Block{HTML: findings, Optional: true})
	}
	if refs := referencesBlock(in); refs != "" {
		last := &sections[len(sections)-1]
		last.Blocks = append(last.Blocks, Block{HTML: refs, Optional: true})
	}
	return sections
}

func findingsBlock(in LongFormInput) string {
	if len(in.KeyPoints) == 0 && len(in.Statistics) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<h3>Key Research Findings</h3>\n<ul>\n")
	for _, kp := range in.KeyPoints {
		fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(kp))
	}
	if len(in.Statistics) > 0 {
		fmt.Fprintf(&b, "<li>Figures that stand out in the research: %s</li>\n", html.EscapeString(strings.Join(in.Statistics, ", ")))
	}
	b.WriteString("</ul>\n")
	return b.String()
}

func referencesBlock(in LongFormInput) string {
	if len(in.Sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<h2>References</h2>\n<ol>\n")
	for _, s := range in.Sources {
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", html.EscapeString(s.URL), html.EscapeString(s.Title))
	}
	b.WriteString("</ol>\n")
	return b.String()
}

// PlanSections decides which blocks to write so that the article stays near target words.
// Required blocks are always kept; an optional block is kept only while the running total plus
// the block plus every remaining required block fits within target. A non-positive target keeps
// everything.
func PlanSections(sections []Section, target int) [][]bool {
	plan := make([][]bool, len(sections))

	remainingRequired := 0
	for _, s := range sections {
		for _, b := range s.Blocks {
			if !b.Optional {
				remainingRequired += BlockWords(b)
			}
		}
	}

	written := 0
	for i, s := range sections {
		plan[i] = make([]bool, len(s.Blocks))
		for j, b := range s.Blocks {
			words := BlockWords(b)
			if !b.Optional {
				remainingRequired -= words
				written += words
				plan[i][j] = true
				continue
			}
			if target <= 0 || written+words+remainingRequired <= target {
				written += words
				plan[i][j] = true
			}
		}
	}
	return plan
}

// BlockWords counts the words a block contributes to the article content.
func BlockWords(b Block) int {
	return utils.CountWords(b.HTML)
}
