package completion

import (
	"strings"

	"github.com/rotisserie/eris"
)

// TemplateKey names a registered prompt template. One key per pipeline
// stage.
type TemplateKey string

const (
	TemplateTLDR             TemplateKey = "tldr"
	TemplateExecutiveSummary TemplateKey = "executive-summary"
	TemplateEntityExtraction TemplateKey = "entity-extraction"
	TemplateSignalAnalysis   TemplateKey = "signal-analysis"
	TemplateRelationships    TemplateKey = "relationship-detection"
	TemplateSectionSummary   TemplateKey = "section-summary"
	TemplateVisualization    TemplateKey = "visualization-recommendation"
)

// promptTemplate pairs a system prompt with a user prompt body. The input
// text is appended to the body.
type promptTemplate struct {
	System string
	Body   string
}

// Render produces the user message for the given input text.
func (t promptTemplate) Render(input string) string {
	var b strings.Builder
	b.WriteString(t.Body)
	b.WriteString("\n\n")
	b.WriteString(input)
	return b.String()
}

const analystSystem = "You are a document analyst. Respond with a single valid JSON value matching the requested schema, with no surrounding prose or code fences."

var templates = map[TemplateKey]promptTemplate{
	TemplateTLDR: {
		System: analystSystem,
		Body: `Write a one-paragraph TLDR of the document below.
Return JSON: {"tldr": "<summary, 2-3 sentences>"}

Document:`,
	},
	TemplateExecutiveSummary: {
		System: analystSystem,
		Body: `Produce an executive summary of the document below.
Return JSON:
{"headline": "<one line>", "key_ideas": ["..."], "kpis": [{"label": "...", "value": <number>, "unit": "..."}], "risks": ["..."], "opportunities": ["..."], "call_to_action": "<one line>"}

Document:`,
	},
	TemplateEntityExtraction: {
		System: analystSystem,
		Body: `Extract the named entities from the document below. Assign each a
short stable id (e.g. "e1") unique within this document.
Return JSON: {"entities": [{"id": "e1", "text": "<display text>", "type": "<person|organization|product|concept|location|other>"}]}

Document:`,
	},
	TemplateSignalAnalysis: {
		System: analystSystem,
		Body: `Score the document below on six qualitative signals, each in [0,1]:
structural (clear hierarchy), process (step-by-step flows), quantitative
(numbers and metrics), technical (domain jargon), argumentative (claims and
support), temporal (dates and sequences).
Return JSON: {"structural": 0.0, "process": 0.0, "quantitative": 0.0, "technical": 0.0, "argumentative": 0.0, "temporal": 0.0}

Document:`,
	},
	TemplateRelationships: {
		System: analystSystem,
		Body: `Identify relationships between the listed entities as they appear in
the document excerpt. Use entity ids (not display text) for source and target.
Return JSON: {"relationships": [{"source": "<entity id>", "target": "<entity id>", "type": "<depends-on|part-of|related-to|causes|precedes>"}]}`,
	},
	TemplateSectionSummary: {
		System: analystSystem,
		Body: `Summarize the section below in 1-2 sentences and extract up to 5 keywords.
Return JSON: {"summary": "<summary>", "keywords": ["..."]}

Section:`,
	},
	TemplateVisualization: {
		System: analystSystem,
		Body: `Given the document statistics and sample below, recommend up to 5
visualizations. Allowed types: structured-view, mind-map, timeline,
bar-chart, network-graph, flow-chart.
Return JSON: {"recommendations": [{"type": "<type>", "score": <0-1>, "rationale": "<one line>"}]}`,
	},
}

func lookupTemplate(key TemplateKey) (promptTemplate, error) {
	tmpl, ok := templates[key]
	if !ok {
		return promptTemplate{}, eris.Errorf("completion: unknown template %q", key)
	}
	return tmpl, nil
}
