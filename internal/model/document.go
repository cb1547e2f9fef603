package model

import "strings"

// Document is the unit of analysis: full text plus an ordered tree of
// sections. The caller owns the Document; the section walker writes
// Summary/Keywords on its sections in place during a run.
type Document struct {
	ID       string           `json:"id" yaml:"id"`
	Title    string           `json:"title,omitempty" yaml:"title,omitempty"`
	Content  string           `json:"content" yaml:"content"`
	Sections []*Section       `json:"sections,omitempty" yaml:"sections,omitempty"`
	Metadata DocumentMetadata `json:"metadata" yaml:"metadata"`
}

// DocumentMetadata carries caller-supplied document facts.
type DocumentMetadata struct {
	WordCount int    `json:"word_count" yaml:"word_count"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Section is one node of the document structure. Summary and Keywords are
// empty until the section walker fills them; Children preserve document
// order and never contain cycles.
type Section struct {
	ID       string     `json:"id" yaml:"id"`
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	Content  string     `json:"content" yaml:"content"`
	Summary  string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Keywords []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Children []*Section `json:"children,omitempty" yaml:"children,omitempty"`
}

// CountWords returns the whitespace-delimited word count of the document
// content, preferring the caller-supplied metadata when present.
func (d *Document) CountWords() int {
	if d.Metadata.WordCount > 0 {
		return d.Metadata.WordCount
	}
	return len(strings.Fields(d.Content))
}

// CountSections returns the total number of sections in the tree.
func (d *Document) CountSections() int {
	var count func(nodes []*Section) int
	count = func(nodes []*Section) int {
		n := 0
		for _, s := range nodes {
			n += 1 + count(s.Children)
		}
		return n
	}
	return count(d.Sections)
}
