package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/insight-cli/internal/model"
)

// loadDocument reads a document from disk. Markdown input is split into a
// section tree by heading level; YAML input is decoded as a full Document;
// plain text becomes a single sectionless document.
func loadDocument(path, format, id string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read document %s", path)
	}

	if format == "" {
		format = inferFormat(path)
	}
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	switch format {
	case "md":
		text := string(data)
		return &model.Document{
			ID:       id,
			Title:    firstHeading(text),
			Content:  text,
			Sections: model.SectionTreeFromMarkdown(text),
		}, nil
	case "yaml":
		var doc model.Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, eris.Wrapf(err, "parse yaml document %s", path)
		}
		if doc.ID == "" {
			doc.ID = id
		}
		return &doc, nil
	case "txt":
		return &model.Document{
			ID:      id,
			Content: string(data),
		}, nil
	default:
		return nil, eris.Errorf("unsupported document format: %s", format)
	}
}

func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "md"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "txt"
	}
}

// firstHeading returns the text of the first markdown heading, or "".
func firstHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}
