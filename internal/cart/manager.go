// Package cart presents the shopper's cart as one list of line items and
// funnels every edit through the mutation layer. Quantities are clamped to
// the product's stock before anything is sent; totals come from the server
// verbatim and are never recomputed here.
package cart

import (
	"context"
	"fmt"

	"estate-front/internal/api"
	"estate-front/internal/cache"
	"estate-front/internal/domain"
	"estate-front/internal/mutation"
	"estate-front/internal/notify"

	"go.uber.org/zap"
)

// CacheKey is the cart's cache key prefix. Every cart mutation invalidates it.
var CacheKey = cache.NewKey("cart")

// Backend is the slice of the API client the cart needs.
type Backend interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, update api.CartUpdate) error
	UpdateCartItem(ctx context.Context, update api.CartUpdate) error
	RemoveCartItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) (*domain.CheckoutResult, error)
}

// Manager coordinates cart reads and edits.
type Manager struct {
	backend  Backend
	store    *cache.Store
	runner   *mutation.Runner
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewManager creates a cart manager.
func NewManager(backend Backend, store *cache.Store, runner *mutation.Runner, notifier notify.Notifier, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		backend:  backend,
		store:    store,
		runner:   runner,
		notifier: notifier,
		logger:   logger,
	}
}

// Cart returns the current cart through the cache.
func (m *Manager) Cart(ctx context.Context) (*domain.Cart, error) {
	res, err := m.store.Query(ctx, CacheKey, func(ctx context.Context) (interface{}, error) {
		return m.backend.GetCart(ctx)
	})
	if err != nil {
		return nil, err
	}
	cart, ok := res.Data.(*domain.Cart)
	if !ok {
		return nil, fmt.Errorf("unexpected cart cache entry %T", res.Data)
	}
	return cart, nil
}

// Add puts a product in the cart. A color, when given, must belong to the
// product's declared color set.
func (m *Manager) Add(ctx context.Context, product *domain.Product, quantity int, color string) error {
	if !product.Available() {
		return fmt.Errorf("%s is not available", product.Name)
	}
	if color != "" && !product.HasColor(color) {
		return fmt.Errorf("color %q is not offered for %s", color, product.Name)
	}

	quantity = clampForProduct(product, quantity)
	_, err := m.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, m.backend.AddToCart(ctx, api.CartUpdate{
			ProductID: product.ID,
			Quantity:  quantity,
			Color:     color,
		})
	}, CacheKey)
	if err != nil {
		m.notifier.Error(err.Error())
		return err
	}
	m.notifier.Success(fmt.Sprintf("%s added to cart", product.Name))
	return nil
}

// SetQuantity updates a line's quantity. The value actually sent is the
// clamped one, never the raw input.
func (m *Manager) SetQuantity(ctx context.Context, item domain.CartItem, quantity int) error {
	return m.update(ctx, api.CartUpdate{
		ProductID: item.Product.ID,
		Quantity:  clampForProduct(&item.Product, quantity),
		Color:     item.Color,
	})
}

// Increment raises the line quantity by one, clamped to stock.
func (m *Manager) Increment(ctx context.Context, item domain.CartItem) error {
	return m.SetQuantity(ctx, item, item.Quantity+1)
}

// Decrement lowers the line quantity by one, never below one.
func (m *Manager) Decrement(ctx context.Context, item domain.CartItem) error {
	return m.SetQuantity(ctx, item, item.Quantity-1)
}

// SetColor re-issues the update mutation with the new color and the line's
// current quantity.
func (m *Manager) SetColor(ctx context.Context, item domain.CartItem, color string) error {
	if !item.Product.HasColor(color) {
		return fmt.Errorf("color %q is not offered for %s", color, item.Product.Name)
	}
	return m.update(ctx, api.CartUpdate{
		ProductID: item.Product.ID,
		Quantity:  item.Quantity,
		Color:     color,
	})
}

func (m *Manager) update(ctx context.Context, update api.CartUpdate) error {
	_, err := m.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, m.backend.UpdateCartItem(ctx, update)
	}, CacheKey)
	if err != nil {
		m.notifier.Error(err.Error())
		return err
	}
	m.notifier.Success("cart updated")
	return nil
}

// Remove deletes one line from the cart.
func (m *Manager) Remove(ctx context.Context, item domain.CartItem) error {
	_, err := m.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, m.backend.RemoveCartItem(ctx, item.Product.ID)
	}, CacheKey)
	if err != nil {
		m.notifier.Error(err.Error())
		return err
	}
	m.notifier.Success(fmt.Sprintf("%s removed from cart", item.Product.Name))
	return nil
}

// Clear empties the cart after confirmation. A declined confirmation is a
// no-op: no call is made.
func (m *Manager) Clear(ctx context.Context, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return nil
	}
	_, err := m.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, m.backend.ClearCart(ctx)
	}, CacheKey)
	if err != nil {
		m.notifier.Error(err.Error())
		return err
	}
	m.notifier.Success("cart cleared")
	return nil
}

// Checkout converts the cart into an order. Partial failure is a normal
// success path: fulfilled lines produce one success notification, each
// unfulfillable line a warning carrying the backend's reason. The cart key
// is invalidated either way, since the backend has already removed the
// fulfilled lines.
func (m *Manager) Checkout(ctx context.Context) (*domain.CheckoutResult, error) {
	res, err := m.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		return m.backend.Checkout(ctx)
	}, CacheKey)
	if err != nil {
		m.notifier.Error(err.Error())
		return nil, err
	}
	result := res.(*domain.CheckoutResult)

	if len(result.AvailableProducts) > 0 {
		m.notifier.Success(fmt.Sprintf(
			"ordered %d properties, total %.2f",
			len(result.AvailableProducts), result.TotalAmount,
		))
	}
	for _, p := range result.UnavailableProducts {
		m.notifier.Warning(fmt.Sprintf("%s: %s", p.Name, p.Reason))
	}
	return result, nil
}

// clampForProduct bounds a requested quantity to what the product allows:
// [1, stock] under the stock-tracked schema, [1, inf) otherwise. Pure; the
// clamped value is the only thing sent.
func clampForProduct(product *domain.Product, quantity int) int {
	if product.TracksStock() {
		return Clamp(quantity, 1, *product.Stock)
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Clamp bounds value to [lo, hi]. A degenerate range (hi < lo) collapses
// to lo, keeping the quantity-at-least-one invariant.
func Clamp(value, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
