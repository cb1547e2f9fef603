package analysis

import (
	"sort"
	"sync"
)

// usageTracker accumulates token usage and distinct model IDs for one
// analysis run. A fresh tracker is created per run inside Analyze, so
// concurrent runs on the same Analyzer never share counters.
type usageTracker struct {
	mu     sync.Mutex
	tokens int
	models map[string]struct{}
}

func newUsageTracker() *usageTracker {
	return &usageTracker{models: make(map[string]struct{})}
}

// Record adds one completion call's usage. Called for every completed call
// regardless of whether its content parsed.
func (t *usageTracker) Record(tokens int, model string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens += tokens
	if model != "" {
		t.models[model] = struct{}{}
	}
}

// Reset clears all counters.
func (t *usageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens = 0
	t.models = make(map[string]struct{})
}

// Totals returns the accumulated token count and the sorted list of
// distinct model IDs.
func (t *usageTracker) Totals() (int, []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	models := make([]string, 0, len(t.models))
	for m := range t.models {
		models = append(models, m)
	}
	sort.Strings(models)
	return t.tokens, models
}
