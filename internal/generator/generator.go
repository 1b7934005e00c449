// Package generator writes glossary exports and reads them back for import.
package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"glossary-manager/internal/model"
	"glossary-manager/internal/storage"
	"glossary-manager/pkg/fsutils"
)

// Format selects the export file layout.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
	FormatXML      Format = "xml" // Same layout as the storage file
)

// Formats lists every supported export format.
var Formats = []Format{FormatYAML, FormatMarkdown, FormatXML}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatMarkdown, FormatXML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want one of %v)", s, Formats)
}

// Config holds the configuration for an export.
type Config struct {
	OutDir string // Directory the export file is written to
	Title  string // Glossary title; also the source of the file name
}

// yamlGlossary is the YAML export layout.
type yamlGlossary struct {
	Title string       `yaml:"title,omitempty"`
	Terms []model.Term `yaml:"terms"`
}

// --- Slug Generation ---
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
var multiHyphen = regexp.MustCompile(`-+`)

// generateSlug creates a file-name friendly slug from a title.
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = multiHyphen.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "glossary"
	}
	return slug
}

// Export writes list to cfg.OutDir in the given format and returns the file path.
func Export(cfg Config, format Format, list []model.Term) (string, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(yamlGlossary{Title: cfg.Title, Terms: nonNil(list)})
	case FormatMarkdown:
		data = renderMarkdown(cfg.Title, list)
	case FormatXML:
		data, err = storage.EncodeXML(storage.NewDocument(list...))
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode %s export: %w", format, err)
	}

	fileName := generateSlug(cfg.Title) + "." + string(format)
	path := filepath.Join(cfg.OutDir, fileName)
	if err := fsutils.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return path, nil
}

// Import reads terms from a YAML (.yaml, .yml) or XML (.xml) export.
// The result is never nil, so it can be passed straight to RecreateStorage.
// Terms are returned as found; validation is left to the storage service.
func Import(path string) ([]model.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var g yamlGlossary
		if err := yaml.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("failed to decode YAML import %s: %w", path, err)
		}
		return nonNil(g.Terms), nil
	case ".xml":
		doc, err := storage.DecodeXML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode XML import %s: %w", path, err)
		}
		return doc.Terms(), nil
	default:
		return nil, fmt.Errorf("cannot import %s: unsupported file extension %q", path, ext)
	}
}

// renderMarkdown renders a definition list; terms keep their stored order.
func renderMarkdown(title string, list []model.Term) []byte {
	var buf bytes.Buffer
	if title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", title)
	}
	for _, t := range list {
		fmt.Fprintf(&buf, "**%s**\n", t.Name)
		if t.Definition != "" {
			fmt.Fprintf(&buf, ": %s\n", t.Definition)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func nonNil(list []model.Term) []model.Term {
	if list == nil {
		return []model.Term{}
	}
	return list
}
