package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"compassai/internal/domain"
)

// Query is the listing request composed from UI state.
type Query struct {
	// Category is a UI category id; empty means all categories.
	Category string
	Term     string
	Origin   string
	Page     int
	// Size falls back to domain.DefaultPageSize when zero.
	Size int
}

// HomeQuery returns the query the Home view issues for the given state.
func HomeQuery(category, term string) Query {
	return Query{
		Category: category,
		Term:     term,
		Page:     domain.DefaultPage,
		Size:     domain.DefaultHomePageSize,
	}
}

// EffectiveSize is the size sent on the wire.
func (q Query) EffectiveSize() int {
	if q.Size == 0 {
		return domain.DefaultPageSize
	}
	return q.Size
}

// TrimmedTerm is the search term as sent on the wire.
func (q Query) TrimmedTerm() string {
	return strings.TrimSpace(q.Term)
}

// Values encodes the query. Empty filters are omitted; page and size are
// always present. Page bounds are not validated.
func (q Query) Values() url.Values {
	values := url.Values{}
	if label := ServerLabel(q.Category); label != "" {
		values.Set("category", label)
	}
	if term := q.TrimmedTerm(); term != "" {
		values.Set("q", term)
	}
	if origin := strings.TrimSpace(q.Origin); origin != "" {
		values.Set("origin", origin)
	}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("size", strconv.Itoa(q.EffectiveSize()))
	return values
}

// Encode returns the URL query string.
func (q Query) Encode() string {
	return q.Values().Encode()
}

// Key identifies the query for idempotence and equality checks.
func (q Query) Key() string {
	return q.Encode()
}
