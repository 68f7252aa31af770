// Package listing holds the pagination, sort, and filter state that drives
// the parameterized product query. Changing anything but the page number
// resets the page to 1, so a narrowed result set is never requested at an
// out-of-range page.
package listing

import (
	"net/url"
	"strconv"

	"estate-front/internal/cache"
)

// SortOrder is the listing sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// DefaultSort matches the backend's default listing order.
const DefaultSort = "createdAt"

// Filters are the request parameters of the product listing query.
type Filters struct {
	Page     int
	Limit    int
	Sort     string
	Order    SortOrder
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
}

// Default returns the initial filter state.
func Default(limit int) Filters {
	return Filters{
		Page:  1,
		Limit: limit,
		Sort:  DefaultSort,
		Order: OrderDesc,
	}
}

// Values serializes the filters to URL query parameters, omitting unset
// fields.
func (f Filters) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("sort", f.Sort)
	v.Set("order", string(f.Order))
	if f.Name != "" {
		v.Set("name", f.Name)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Featured != nil {
		v.Set("featured", strconv.FormatBool(*f.Featured))
	}
	return v
}

// Key returns the cache key for this filter combination. Values().Encode()
// sorts parameters, so deep-equal filters always produce the same key and
// share one cache entry.
func (f Filters) Key() cache.Key {
	return cache.NewKey("products", f.Values().Encode())
}

// Model tracks the filter state together with the server-echoed page bounds.
// TotalPages comes back with every listing response; the model never
// computes it.
type Model struct {
	filters    Filters
	totalPages int
}

// NewModel creates a listing model with the default filters.
func NewModel(limit int) *Model {
	return &Model{filters: Default(limit)}
}

// Filters returns the current filter state.
func (m *Model) Filters() Filters {
	return m.filters
}

// ApplyResponse records the page bounds echoed by the server.
func (m *Model) ApplyResponse(page, totalPages int) {
	m.filters.Page = page
	m.totalPages = totalPages
}

// TotalPages returns the last server-echoed page count, 0 before the first
// response.
func (m *Model) TotalPages() int {
	return m.totalPages
}

// SetPage moves to page p. Out-of-range requests are ignored once the
// server has reported the page count.
func (m *Model) SetPage(p int) {
	if p < 1 {
		return
	}
	if m.totalPages > 0 && p > m.totalPages {
		return
	}
	m.filters.Page = p
}

// NextPage advances one page when possible.
func (m *Model) NextPage() { m.SetPage(m.filters.Page + 1) }

// PrevPage steps back one page when possible.
func (m *Model) PrevPage() { m.SetPage(m.filters.Page - 1) }

// HasNextPage reports whether a later page exists.
func (m *Model) HasNextPage() bool {
	return m.totalPages > 0 && m.filters.Page < m.totalPages
}

// HasPrevPage reports whether an earlier page exists.
func (m *Model) HasPrevPage() bool {
	return m.filters.Page > 1
}

// SetName sets the free-text search and resets the page.
func (m *Model) SetName(name string) {
	m.filters.Name = name
	m.resetPage()
}

// SetCategory sets the category filter and resets the page.
func (m *Model) SetCategory(category string) {
	m.filters.Category = category
	m.resetPage()
}

// SetPriceRange sets the price bounds and resets the page. Nil clears a
// bound.
func (m *Model) SetPriceRange(min, max *float64) {
	m.filters.MinPrice = min
	m.filters.MaxPrice = max
	m.resetPage()
}

// SetFeatured sets the featured flag filter and resets the page.
func (m *Model) SetFeatured(featured *bool) {
	m.filters.Featured = featured
	m.resetPage()
}

// SetLimit changes the page size and resets the page.
func (m *Model) SetLimit(limit int) {
	if limit < 1 {
		return
	}
	m.filters.Limit = limit
	m.resetPage()
}

// ToggleSort handles a sort-column click: the currently sorted column flips
// between ascending and descending, a new column becomes the sort key in
// ascending order. Either way the page resets.
func (m *Model) ToggleSort(column string) {
	if m.filters.Sort == column {
		if m.filters.Order == OrderAsc {
			m.filters.Order = OrderDesc
		} else {
			m.filters.Order = OrderAsc
		}
	} else {
		m.filters.Sort = column
		m.filters.Order = OrderAsc
	}
	m.resetPage()
}

func (m *Model) resetPage() {
	m.filters.Page = 1
}
