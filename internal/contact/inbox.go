// Package contact is the admin side of the contact inbox: a paginated,
// searchable message list with a status workflow.
package contact

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"estate-front/internal/api"
	"estate-front/internal/cache"
	"estate-front/internal/domain"
	"estate-front/internal/mutation"
)

// StatusAll widens the status filter to every message; the parameter is
// then omitted from the request.
const StatusAll = "all"

// Filters are the inbox query parameters.
type Filters struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// Values serializes the filters, omitting the all-statuses sentinel and an
// empty search.
func (f Filters) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	if f.Status != "" && f.Status != StatusAll {
		v.Set("status", f.Status)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

// Key returns the cache key for this filter combination.
func (f Filters) Key() cache.Key {
	return cache.NewKey("contacts", f.Values().Encode())
}

// Backend is the slice of the API client the inbox needs.
type Backend interface {
	ListContacts(ctx context.Context, query url.Values) (*api.ContactPage, error)
	UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error
	DeleteContact(ctx context.Context, id string) error
	ContactStats(ctx context.Context) (*domain.ContactStats, error)
}

// Inbox drives the admin contact list. Like the product listing, it records
// the server-echoed page count from each response and never computes it.
type Inbox struct {
	backend    Backend
	store      *cache.Store
	runner     *mutation.Runner
	filters    Filters
	totalPages int
}

// NewInbox creates an inbox with defaults.
func NewInbox(backend Backend, store *cache.Store, runner *mutation.Runner, limit int) *Inbox {
	return &Inbox{
		backend: backend,
		store:   store,
		runner:  runner,
		filters: Filters{Page: 1, Limit: limit, Status: StatusAll},
	}
}

// Filters returns the current filter state.
func (i *Inbox) Filters() Filters { return i.filters }

// SetStatus narrows the inbox to one status and resets the page.
func (i *Inbox) SetStatus(status string) {
	i.filters.Status = status
	i.filters.Page = 1
}

// SetSearch sets the free-text search and resets the page.
func (i *Inbox) SetSearch(search string) {
	i.filters.Search = search
	i.filters.Page = 1
}

// SetPage moves to page p. Out-of-range requests are ignored once the
// server has reported the page count.
func (i *Inbox) SetPage(p int) {
	if p < 1 || (i.totalPages > 0 && p > i.totalPages) {
		return
	}
	i.filters.Page = p
}

// TotalPages returns the last server-echoed page count, 0 before the first
// response.
func (i *Inbox) TotalPages() int { return i.totalPages }

// Fetch loads the inbox page for the current filters through the cache and
// records the server-echoed page bounds.
func (i *Inbox) Fetch(ctx context.Context) (*api.ContactPage, error) {
	filters := i.filters
	res, err := i.store.Query(ctx, filters.Key(), func(ctx context.Context) (interface{}, error) {
		return i.backend.ListContacts(ctx, filters.Values())
	})
	if err != nil {
		return nil, err
	}
	page, ok := res.Data.(*api.ContactPage)
	if !ok {
		return nil, fmt.Errorf("unexpected inbox cache entry %T", res.Data)
	}
	i.filters.Page = page.Page
	i.totalPages = page.TotalPages
	return page, nil
}

// UpdateStatus moves a message through the workflow and invalidates the
// inbox.
func (i *Inbox) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	_, err := i.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, i.backend.UpdateContactStatus(ctx, id, status)
	}, cache.NewKey("contacts"))
	return err
}

// Delete removes a message and invalidates the inbox.
func (i *Inbox) Delete(ctx context.Context, id string) error {
	_, err := i.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, i.backend.DeleteContact(ctx, id)
	}, cache.NewKey("contacts"))
	return err
}

// Stats fetches the per-status counts through the cache.
func (i *Inbox) Stats(ctx context.Context) (*domain.ContactStats, error) {
	res, err := i.store.Query(ctx, cache.NewKey("contacts", "stats"), func(ctx context.Context) (interface{}, error) {
		return i.backend.ContactStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	stats, ok := res.Data.(*domain.ContactStats)
	if !ok {
		return nil, fmt.Errorf("unexpected stats cache entry %T", res.Data)
	}
	return stats, nil
}
