package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"compassai/internal/domain"
	"compassai/internal/infra/jsoncodec"
)

//go:embed dataset/tools.yaml
var defaultDataset []byte

// Format is the encoding of a dataset file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath picks the dataset format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))
	}
}

type Loader struct {
	logger *zap.Logger
}

type rawDataset struct {
	Tools []rawTool `yaml:"tools" toml:"tools" json:"tools"`
}

type rawTool struct {
	ID         any      `yaml:"id" toml:"id" json:"id"`
	Name       string   `yaml:"name" toml:"name" json:"name"`
	SubTitle   string   `yaml:"subTitle" toml:"subTitle" json:"subTitle"`
	Categories []string `yaml:"categories" toml:"categories" json:"categories"`
	Category   string   `yaml:"category" toml:"category" json:"category"`
	Origin     string   `yaml:"origin" toml:"origin" json:"origin"`
	URL        string   `yaml:"url" toml:"url" json:"url"`
	Logo       string   `yaml:"logo" toml:"logo" json:"logo"`
	Long       string   `yaml:"long" toml:"long" json:"long"`
	Tags       []string `yaml:"tags" toml:"tags" json:"tags"`
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("dataset")}
}

// Default returns the built-in tool list.
func (l *Loader) Default() ([]domain.Tool, error) {
	return Decode(defaultDataset, FormatYAML)
}

// Load reads the dataset at path. An empty path yields the built-in list.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Tool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(path) == "" {
		return l.Default()
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tools, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	for _, tool := range tools {
		if len(tool.AllCategories()) == 0 {
			l.logger.Warn("tool has no categories", zap.String("path", path), zap.String("id", tool.ID.String()))
		}
	}
	l.logger.Debug("dataset loaded", zap.String("path", path), zap.Int("tools", len(tools)))
	return tools, nil
}

// Decode parses a dataset document and validates its entries.
func Decode(data []byte, format Format) ([]domain.Tool, error) {
	var raw rawDataset
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatJSON:
		if err := jsoncodec.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}

	tools := make([]domain.Tool, 0, len(raw.Tools))
	seen := make(map[domain.ToolID]struct{}, len(raw.Tools))
	var validationErrors []string
	for i, entry := range raw.Tools {
		tool, errs := normalizeTool(entry, i)
		if len(errs) > 0 {
			validationErrors = append(validationErrors, errs...)
			continue
		}
		if _, exists := seen[tool.ID]; exists {
			validationErrors = append(validationErrors, fmt.Sprintf("tools[%d]: duplicate id %q", i, tool.ID))
			continue
		}
		seen[tool.ID] = struct{}{}
		tools = append(tools, tool)
	}
	if len(validationErrors) > 0 {
		return nil, errors.New(strings.Join(validationErrors, "; "))
	}
	return tools, nil
}

func normalizeTool(raw rawTool, index int) (domain.Tool, []string) {
	var errs []string
	var id domain.ToolID
	if raw.ID == nil {
		errs = append(errs, fmt.Sprintf("tools[%d]: id is required", index))
	} else {
		parsed, err := domain.ParseToolID(raw.ID)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("tools[%d]: %v", index, err))
		case parsed == "":
			errs = append(errs, fmt.Sprintf("tools[%d]: id is required", index))
		default:
			id = parsed
		}
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		errs = append(errs, fmt.Sprintf("tools[%d]: name is required", index))
	}
	if len(errs) > 0 {
		return domain.Tool{}, errs
	}
	return domain.Tool{
		ID:         id,
		Name:       name,
		SubTitle:   strings.TrimSpace(raw.SubTitle),
		Categories: trimAll(raw.Categories),
		Category:   strings.TrimSpace(raw.Category),
		Origin:     strings.TrimSpace(raw.Origin),
		URL:        strings.TrimSpace(raw.URL),
		Logo:       strings.TrimSpace(raw.Logo),
		Long:       strings.TrimSpace(raw.Long),
		Tags:       trimAll(raw.Tags),
	}, nil
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
