package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"compassai/internal/infra/jsoncodec"
)

// ToolID identifies a tool. Backend ids are numeric; the historical static
// dataset used strings, so both JSON forms are accepted.
type ToolID string

// Int64 returns the numeric form of the id when it has one.
func (id ToolID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id ToolID) String() string {
	return string(id)
}

// MarshalJSON writes numeric ids as JSON numbers and everything else as strings.
func (id ToolID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return jsoncodec.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON number, a JSON string, or null.
func (id *ToolID) UnmarshalJSON(data []byte) error {
	dec := jsoncodec.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode tool id: %w", err)
	}
	if raw == nil {
		*id = ""
		return nil
	}
	if number, ok := raw.(fmt.Stringer); ok {
		raw = number.String()
	}
	value, err := ParseToolID(raw)
	if err != nil {
		return err
	}
	*id = value
	return nil
}

// ParseToolID normalizes a decoded scalar (number or string) into a ToolID.
func ParseToolID(raw any) (ToolID, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("tool id: %w", err)
	}
	return ToolID(strings.TrimSpace(s)), nil
}

// Tool is the display model of one catalog entry. Snapshots are read-only.
type Tool struct {
	ID         ToolID   `json:"id"`
	Name       string   `json:"name"`
	SubTitle   string   `json:"subTitle,omitempty"`
	Categories []string `json:"categories,omitempty"`
	// Category is the legacy singular field; it aliases a one-element Categories.
	Category string   `json:"category,omitempty"`
	Origin   string   `json:"origin,omitempty"`
	URL      string   `json:"url,omitempty"`
	Logo     string   `json:"logo,omitempty"`
	Long     string   `json:"long,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// AllCategories returns the tool's category labels, treating the legacy
// singular field as a one-element list when Categories is empty.
func (t Tool) AllCategories() []string {
	if len(t.Categories) > 0 {
		out := make([]string, len(t.Categories))
		copy(out, t.Categories)
		return out
	}
	if strings.TrimSpace(t.Category) != "" {
		return []string{t.Category}
	}
	return nil
}

// SplitName separates "한글 (English)" style names into their two parts.
func (t Tool) SplitName() (primary, secondary string) {
	name := strings.TrimSpace(t.Name)
	open := strings.LastIndex(name, "(")
	if open <= 0 || !strings.HasSuffix(name, ")") {
		return name, ""
	}
	return strings.TrimSpace(name[:open]), strings.TrimSpace(name[open+1 : len(name)-1])
}

// Origin tags attached to tools.
const (
	OriginDomestic = "국내"
	OriginOverseas = "해외"
)

// Category is a static UI lookup entry.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
