package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalAnalysis_Clamp(t *testing.T) {
	s := SignalAnalysis{
		Structural:    1.5,
		Process:       -0.3,
		Quantitative:  0.0,
		Technical:     1.0,
		Argumentative: 0.42,
		Temporal:      2.0,
	}

	clamped := s.Clamp()

	assert.Equal(t, 1.0, clamped.Structural)
	assert.Equal(t, 0.0, clamped.Process)
	assert.Equal(t, 0.0, clamped.Quantitative)
	assert.Equal(t, 1.0, clamped.Technical)
	assert.Equal(t, 0.42, clamped.Argumentative)
	assert.Equal(t, 1.0, clamped.Temporal)
}

func TestDefaultSignals_InRange(t *testing.T) {
	s := DefaultSignals()
	assert.Equal(t, s, s.Clamp())
	assert.Equal(t, 0.5, s.Structural)
	assert.Equal(t, 0.3, s.Process)
}

func TestDocument_CountWords(t *testing.T) {
	d := &Document{Content: "one two  three\nfour"}
	assert.Equal(t, 4, d.CountWords())

	// Caller-supplied metadata wins.
	d.Metadata.WordCount = 99
	assert.Equal(t, 99, d.CountWords())
}

func TestDocument_CountSections(t *testing.T) {
	d := &Document{
		Sections: []*Section{
			{ID: "s1", Children: []*Section{
				{ID: "s2"},
				{ID: "s3", Children: []*Section{{ID: "s4"}}},
			}},
			{ID: "s5"},
		},
	}
	assert.Equal(t, 5, d.CountSections())

	empty := &Document{}
	assert.Zero(t, empty.CountSections())
}
