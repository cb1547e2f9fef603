package analysis

import (
	"sync"

	"github.com/sells-group/insight-cli/internal/model"
)

// Pipeline step names, in execution order.
const (
	StepInit            = "init"
	StepPriority        = "priority-analysis"
	StepEarlyResults    = "early-results"
	StepDetailed        = "detailed-analysis"
	StepRelationships   = "relationships"
	StepSections        = "sections"
	StepRecommendations = "recommendations"
	StepComplete        = "complete"
)

// ProgressEvent is one checkpoint emitted by the orchestrator. Percent
// values within a run are monotonically non-decreasing and end at 100.
type ProgressEvent struct {
	Step    string                  `json:"step"`
	Percent int                     `json:"percent"`
	Message string                  `json:"message"`
	Partial *model.DocumentAnalysis `json:"partial,omitempty"`
}

// ProgressFunc receives progress events synchronously on the orchestrator's
// goroutine; implementations must not block indefinitely.
type ProgressFunc func(ProgressEvent)

// ProgressCollector records emitted events so consumers (and tests) can
// inspect the sequence after, or independently of, the run.
type ProgressCollector struct {
	mu     sync.Mutex
	events []ProgressEvent
}

// Func returns a ProgressFunc that appends to the collector.
func (c *ProgressCollector) Func() ProgressFunc {
	return func(ev ProgressEvent) {
		c.mu.Lock()
		c.events = append(c.events, ev)
		c.mu.Unlock()
	}
}

// Events returns a copy of the recorded sequence.
func (c *ProgressCollector) Events() []ProgressEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ProgressEvent, len(c.events))
	copy(out, c.events)
	return out
}

// TeeProgress fans one event out to multiple callbacks, skipping nils.
func TeeProgress(fns ...ProgressFunc) ProgressFunc {
	return func(ev ProgressEvent) {
		for _, fn := range fns {
			if fn != nil {
				fn(ev)
			}
		}
	}
}
