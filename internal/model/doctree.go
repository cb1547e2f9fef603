package model

import (
	"fmt"
	"strings"
)

// SectionTreeFromMarkdown builds a Section tree from markdown heading
// structure. Heading level determines nesting; text before the first
// heading becomes a preamble section. Documents without headings yield a
// single section holding the full text.
func SectionTreeFromMarkdown(text string) []*Section {
	type frame struct {
		level int
		node  *Section
	}

	var roots []*Section
	var stack []frame
	var current *Section
	var buf strings.Builder
	seq := 0

	flush := func() {
		content := strings.TrimSpace(buf.String())
		buf.Reset()
		if content == "" {
			return
		}
		if current == nil {
			seq++
			roots = append(roots, &Section{
				ID:      fmt.Sprintf("s%d", seq),
				Content: content,
			})
			return
		}
		current.Content = content
	}

	for _, line := range strings.Split(text, "\n") {
		level, title := headingLine(line)
		if level == 0 {
			buf.WriteString(line)
			buf.WriteString("\n")
			continue
		}

		flush()
		seq++
		node := &Section{
			ID:    fmt.Sprintf("s%d", seq),
			Title: title,
		}

		// Pop frames at the same or deeper level to find the parent.
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, frame{level: level, node: node})
		current = node
	}
	flush()

	if len(roots) == 0 && strings.TrimSpace(text) != "" {
		roots = append(roots, &Section{ID: "s1", Content: strings.TrimSpace(text)})
	}
	return roots
}

// headingLine returns the markdown heading level (1-6) and title, or 0 for
// non-heading lines.
func headingLine(line string) (int, string) {
	trimmed := strings.TrimLeft(line, " ")
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(trimmed) || trimmed[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(trimmed[level:])
}
