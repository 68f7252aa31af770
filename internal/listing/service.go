package listing

import (
	"context"
	"fmt"
	"net/url"

	"estate-front/internal/api"
	"estate-front/internal/cache"
)

// Backend is the slice of the API client the listing needs.
type Backend interface {
	ListProducts(ctx context.Context, query url.Values) (*api.ProductPage, error)
}

// Service runs the listing query through the cache, keyed by the current
// filters, and feeds the server-echoed page bounds back into the model.
type Service struct {
	backend Backend
	store   *cache.Store
	Model   *Model
}

// NewService creates a listing service with default filters.
func NewService(backend Backend, store *cache.Store, limit int) *Service {
	return &Service{
		backend: backend,
		store:   store,
		Model:   NewModel(limit),
	}
}

// Fetch loads the page for the current filters. Equal filter states share
// one cache entry; a stale entry serves its previous data while the refetch
// runs, so filter changes don't flash an empty table.
func (s *Service) Fetch(ctx context.Context) (*api.ProductPage, error) {
	filters := s.Model.Filters()
	res, err := s.store.Query(ctx, filters.Key(), func(ctx context.Context) (interface{}, error) {
		return s.backend.ListProducts(ctx, filters.Values())
	})
	if err != nil {
		return nil, err
	}
	page, ok := res.Data.(*api.ProductPage)
	if !ok {
		return nil, fmt.Errorf("unexpected listing cache entry %T", res.Data)
	}
	s.Model.ApplyResponse(page.Page, page.TotalPages)
	return page, nil
}
