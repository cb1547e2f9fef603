package model

import "time"

// Entity is a named thing extracted from the document. IDs are unique
// within one analysis.
type Entity struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// Relationship links two entities by their IDs. Endpoints should resolve to
// known entity IDs; the reconciler flags (but does not fix) violations.
type Relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// SignalAnalysis scores six qualitative dimensions of the document, each
// in [0,1].
type SignalAnalysis struct {
	Structural    float64 `json:"structural"`
	Process       float64 `json:"process"`
	Quantitative  float64 `json:"quantitative"`
	Technical     float64 `json:"technical"`
	Argumentative float64 `json:"argumentative"`
	Temporal      float64 `json:"temporal"`
}

// DefaultSignals is the deterministic fallback vector used when the signal
// stage cannot be parsed.
func DefaultSignals() SignalAnalysis {
	return SignalAnalysis{
		Structural:    0.5,
		Process:       0.3,
		Quantitative:  0.3,
		Technical:     0.2,
		Argumentative: 0.3,
		Temporal:      0.2,
	}
}

// Clamp constrains every score to [0,1].
func (s SignalAnalysis) Clamp() SignalAnalysis {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return SignalAnalysis{
		Structural:    clamp(s.Structural),
		Process:       clamp(s.Process),
		Quantitative:  clamp(s.Quantitative),
		Technical:     clamp(s.Technical),
		Argumentative: clamp(s.Argumentative),
		Temporal:      clamp(s.Temporal),
	}
}

// KPI is a labeled metric surfaced in the executive summary.
type KPI struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ExecutiveSummary is the headline view of the document.
type ExecutiveSummary struct {
	Headline      string   `json:"headline"`
	KeyIdeas      []string `json:"key_ideas"`
	KPIs          []KPI    `json:"kpis"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
	CallToAction  string   `json:"call_to_action"`
}

// Visualization type tags. StructuredView is always present in a
// recommendation list.
const (
	VizStructuredView = "structured-view"
	VizMindMap        = "mind-map"
	VizTimeline       = "timeline"
	VizBarChart       = "bar-chart"
	VizNetworkGraph   = "network-graph"
	VizFlowChart      = "flow-chart"
)

// VisualizationRecommendation suggests a rendering for the analysis.
type VisualizationRecommendation struct {
	Type      string  `json:"type"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// AnalysisMetrics are the numeric facts fed to the recommendation stage and
// reported with the result.
type AnalysisMetrics struct {
	WordCount         int `json:"word_count"`
	SectionCount      int `json:"section_count"`
	EntityCount       int `json:"entity_count"`
	RelationshipCount int `json:"relationship_count"`
}

// EndpointMismatch records one relationship endpoint that did not resolve to
// a known entity ID.
type EndpointMismatch struct {
	Field    string `json:"field"` // "source" or "target"
	Endpoint string `json:"endpoint"`
	RelType  string `json:"rel_type"`
	Kind     string `json:"kind"` // MismatchTextForID or MismatchUnknown
}

// Mismatch classifications from the reconciler.
const (
	MismatchTextForID = "text-instead-of-id"
	MismatchUnknown   = "unknown-endpoint"
)

// ReconcileReport summarizes relationship endpoint validation. Correction is
// deferred to downstream consumers.
type ReconcileReport struct {
	Checked    int                `json:"checked"`
	Mismatches []EndpointMismatch `json:"mismatches,omitempty"`
}

// AnalysisMetadata carries per-run accounting.
type AnalysisMetadata struct {
	TokensUsed  int       `json:"tokens_used"`
	Models      []string  `json:"models"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// DocumentAnalysis is the aggregate output of one analysis run. All fields
// are immutable once returned.
type DocumentAnalysis struct {
	DocumentID       string                        `json:"document_id"`
	TLDR             string                        `json:"tldr"`
	ExecutiveSummary ExecutiveSummary              `json:"executive_summary"`
	Entities         []Entity                      `json:"entities"`
	Relationships    []Relationship                `json:"relationships"`
	Signals          SignalAnalysis                `json:"signals"`
	Metrics          AnalysisMetrics               `json:"metrics"`
	Recommendations  []VisualizationRecommendation `json:"recommendations"`
	Reconciliation   *ReconcileReport              `json:"reconciliation,omitempty"`
	Metadata         AnalysisMetadata              `json:"metadata"`
}
