package catalog

import (
	"strings"

	"compassai/internal/domain"
)

// Category ids used in UI state.
const (
	CategoryWrite        = "write"
	CategoryDesign       = "design"
	CategoryVideo        = "video"
	CategoryProductivity = "productivity"
	CategoryEdu          = "edu"
	CategoryDev          = "dev"
	CategoryBiz          = "biz"
	CategorySearch       = "search"
	CategoryEnt          = "ent"
	CategoryGame         = "game"
	CategoryLife         = "life"
)

var categories = []domain.Category{
	{ID: CategoryWrite, Label: "글쓰기/콘텐츠"},
	{ID: CategoryDesign, Label: "디자인/아트"},
	{ID: CategoryVideo, Label: "비디오/오디오"},
	{ID: CategoryProductivity, Label: "생산성/협업도구"},
	{ID: CategoryEdu, Label: "교육/학습"},
	{ID: CategoryDev, Label: "개발/프로그래밍"},
	{ID: CategoryBiz, Label: "비즈니스/마케팅"},
	{ID: CategorySearch, Label: "검색/데이터"},
	{ID: CategoryEnt, Label: "엔터테인먼트/기타"},
	{ID: CategoryGame, Label: "게임"},
	{ID: CategoryLife, Label: "일상생활형 서비스"},
}

// synonyms lists every spelling the dataset uses per id; the first entry is
// the canonical label sent to the backend.
var synonyms = map[string][]string{
	CategoryWrite:        {"글쓰기/콘텐츠", "글쓰기/컨텐츠"},
	CategoryDesign:       {"디자인/아트"},
	CategoryVideo:        {"비디오/오디오"},
	CategoryProductivity: {"생산성/협업도구"},
	CategoryEdu:          {"교육/학습"},
	CategoryDev:          {"개발/프로그래밍"},
	CategoryBiz:          {"비즈니스/마케팅"},
	CategorySearch:       {"검색/데이터"},
	CategoryEnt:          {"엔터테인먼트/기타"},
	CategoryGame:         {"게임"},
	CategoryLife:         {"일상생활형 서비스"},
}

// All returns the category table in display order.
func All() []domain.Category {
	out := make([]domain.Category, len(categories))
	copy(out, categories)
	return out
}

// Has reports whether id is in the table.
func Has(id string) bool {
	_, ok := synonyms[id]
	return ok
}

// Lookup returns the category for id.
func Lookup(id string) (domain.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// Labels returns every label spelling accepted for id. Unknown and empty ids
// resolve to an empty list, which callers treat as "no category filter".
func Labels(id string) []string {
	labels, ok := synonyms[id]
	if !ok {
		return nil
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// ServerLabel returns the canonical (first) label for id, or "" when id has
// no mapping.
func ServerLabel(id string) string {
	labels := synonyms[id]
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

// ResolveID finds the category id for a UI id or any label spelling.
func ResolveID(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	if Has(trimmed) {
		return trimmed, true
	}
	for _, c := range categories {
		for _, label := range synonyms[c.ID] {
			if label == trimmed {
				return c.ID, true
			}
		}
	}
	return "", false
}

// CanonicalLabels returns the canonical label of every category in display
// order; the submit form offers exactly these.
func CanonicalLabels() []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, ServerLabel(c.ID))
	}
	return out
}
