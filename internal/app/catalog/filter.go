package catalog

import (
	"strings"

	"compassai/internal/domain"
)

// Filter keeps tools matching both the category and the search term, in input
// order. An unknown or empty category id and an empty term apply no
// constraint. tools is not modified.
func Filter(tools []domain.Tool, categoryID, term string) []domain.Tool {
	labels := Labels(categoryID)
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Tool, 0, len(tools))
	for _, tool := range tools {
		if !matchesCategory(tool, labels) {
			continue
		}
		if !matchesTerm(tool, needle) {
			continue
		}
		out = append(out, tool)
	}
	return out
}

// FilterQuery applies Filter with the query's category, term and origin.
func FilterQuery(tools []domain.Tool, q Query) []domain.Tool {
	filtered := Filter(tools, q.Category, q.Term)
	origin := strings.TrimSpace(q.Origin)
	if origin == "" {
		return filtered
	}
	out := filtered[:0]
	for _, tool := range filtered {
		if tool.Origin == origin {
			out = append(out, tool)
		}
	}
	return out
}

func matchesCategory(tool domain.Tool, labels []string) bool {
	if len(labels) == 0 {
		return true
	}
	for _, have := range tool.AllCategories() {
		for _, want := range labels {
			if have == want {
				return true
			}
		}
	}
	return false
}

func matchesTerm(tool domain.Tool, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tool.Name), needle) ||
		strings.Contains(strings.ToLower(tool.SubTitle), needle)
}
