// Package orders is the shopper's order history view. The backend returns
// the full list; status and date-range filtering happen client-side, which
// is how the storefront has always done it.
package orders

import (
	"context"
	"fmt"
	"time"

	"estate-front/internal/cache"
	"estate-front/internal/domain"
)

// CacheKey is the order history cache key.
var CacheKey = cache.NewKey("orders", "user")

// Filter narrows the fetched order list. Zero values match everything.
type Filter struct {
	Status    domain.OrderStatus
	StartDate time.Time
	EndDate   time.Time
}

// Matches reports whether an order passes the filter.
func (f Filter) Matches(order domain.Order) bool {
	if f.Status != "" && order.Status != f.Status {
		return false
	}
	if !f.StartDate.IsZero() && order.OrderDate.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && order.OrderDate.After(f.EndDate) {
		return false
	}
	return true
}

// Backend is the slice of the API client the history needs.
type Backend interface {
	UserOrders(ctx context.Context) ([]domain.Order, error)
}

// History fetches and filters the caller's orders.
type History struct {
	backend Backend
	store   *cache.Store
}

// NewHistory creates an order history view.
func NewHistory(backend Backend, store *cache.Store) *History {
	return &History{backend: backend, store: store}
}

// Orders returns the caller's orders matching filter. The unfiltered list
// is what gets cached, so flipping filters never refetches.
func (h *History) Orders(ctx context.Context, filter Filter) ([]domain.Order, error) {
	res, err := h.store.Query(ctx, CacheKey, func(ctx context.Context) (interface{}, error) {
		return h.backend.UserOrders(ctx)
	})
	if err != nil {
		return nil, err
	}
	all, ok := res.Data.([]domain.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected orders cache entry %T", res.Data)
	}

	filtered := make([]domain.Order, 0, len(all))
	for _, order := range all {
		if filter.Matches(order) {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// StatusLabel returns the display label for an order status.
func StatusLabel(status domain.OrderStatus) string {
	switch status {
	case domain.OrderPending:
		return "Pending"
	case domain.OrderPreparing:
		return "Preparing"
	case domain.OrderShipped:
		return "Shipped"
	case domain.OrderDelivered:
		return "Delivered"
	case domain.OrderCancelled:
		return "Cancelled"
	default:
		return string(status)
	}
}
