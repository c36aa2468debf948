package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"compassai/internal/domain"
	"compassai/internal/infra/jsoncodec"
)

type exportTool struct {
	ID         string   `yaml:"id" toml:"id" json:"id"`
	Name       string   `yaml:"name" toml:"name" json:"name"`
	SubTitle   string   `yaml:"subTitle,omitempty" toml:"subTitle,omitempty" json:"subTitle,omitempty"`
	Categories []string `yaml:"categories,omitempty" toml:"categories,omitempty" json:"categories,omitempty"`
	Origin     string   `yaml:"origin,omitempty" toml:"origin,omitempty" json:"origin,omitempty"`
	URL        string   `yaml:"url,omitempty" toml:"url,omitempty" json:"url,omitempty"`
	Logo       string   `yaml:"logo,omitempty" toml:"logo,omitempty" json:"logo,omitempty"`
	Long       string   `yaml:"long,omitempty" toml:"long,omitempty" json:"long,omitempty"`
	Tags       []string `yaml:"tags,omitempty" toml:"tags,omitempty" json:"tags,omitempty"`
}

type exportDataset struct {
	Tools []exportTool `yaml:"tools" toml:"tools" json:"tools"`
}

// Encode renders tools as a dataset document that Decode reads back.
func Encode(tools []domain.Tool, format Format) ([]byte, error) {
	doc := exportDataset{Tools: make([]exportTool, 0, len(tools))}
	for _, tool := range tools {
		doc.Tools = append(doc.Tools, exportTool{
			ID:         tool.ID.String(),
			Name:       tool.Name,
			SubTitle:   tool.SubTitle,
			Categories: tool.AllCategories(),
			Origin:     tool.Origin,
			URL:        tool.URL,
			Logo:       tool.Logo,
			Long:       tool.Long,
			Tags:       tool.Tags,
		})
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := jsoncodec.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}

// Export writes tools to path in the format its extension names.
func Export(path string, tools []domain.Tool) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(tools, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}
