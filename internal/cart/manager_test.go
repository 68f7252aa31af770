package cart

import (
	"context"
	"errors"
	"testing"

	"estate-front/internal/api"
	"estate-front/internal/cache"
	"estate-front/internal/domain"
	"estate-front/internal/mutation"
	"estate-front/internal/notify"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend records every cart call for assertions.
type mockBackend struct {
	cart     *domain.Cart
	updates  []api.CartUpdate
	adds     []api.CartUpdate
	removed  []string
	cleared  int
	checkout *domain.CheckoutResult
	err      error
}

func (m *mockBackend) GetCart(ctx context.Context) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return &domain.Cart{}, nil
	}
	return m.cart, nil
}

func (m *mockBackend) AddToCart(ctx context.Context, update api.CartUpdate) error {
	if m.err != nil {
		return m.err
	}
	m.adds = append(m.adds, update)
	return nil
}

func (m *mockBackend) UpdateCartItem(ctx context.Context, update api.CartUpdate) error {
	if m.err != nil {
		return m.err
	}
	m.updates = append(m.updates, update)
	return nil
}

func (m *mockBackend) RemoveCartItem(ctx context.Context, productID string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, productID)
	return nil
}

func (m *mockBackend) ClearCart(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared++
	return nil
}

func (m *mockBackend) Checkout(ctx context.Context) (*domain.CheckoutResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.checkout, nil
}

func newTestManager(backend *mockBackend) (*Manager, *cache.Store, *notify.Recorder) {
	store := cache.NewStore(nil)
	runner := mutation.NewRunner(store, nil)
	recorder := &notify.Recorder{}
	return NewManager(backend, store, runner, recorder, nil), store, recorder
}

func stockedProduct(id string, stock int) domain.Product {
	return domain.Product{ID: id, Name: "Prop " + id, Price: 100, Stock: &stock}
}

func TestProperty_SentQuantityIsAlwaysClamped(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("the value sent is clamp(q, 1, stock), never q verbatim", prop.ForAll(
		func(requested int, stock int) bool {
			backend := &mockBackend{}
			mgr, store, _ := newTestManager(backend)
			defer store.Close()

			item := domain.CartItem{
				Product:  stockedProduct("p1", stock),
				Quantity: 1,
			}
			if err := mgr.SetQuantity(context.Background(), item, requested); err != nil {
				return false
			}
			if len(backend.updates) != 1 {
				return false
			}
			sent := backend.updates[0].Quantity
			return sent == Clamp(requested, 1, stock)
		},
		gen.IntRange(-10, 50),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		value, lo, hi, want int
	}{
		{0, 1, 5, 1},
		{-3, 1, 5, 1},
		{3, 1, 5, 3},
		{6, 1, 5, 5},
		{1, 1, 1, 1},
		{2, 1, 0, 1}, // degenerate range collapses to lo
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.value, tt.lo, tt.hi))
	}
}

func TestIncrement_ClampsAtStock(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, _ := newTestManager(backend)
	defer store.Close()

	// Cart holds qty=2 of a product with stock=5. Three increments land on
	// 3, 4, 5; the third is clamped, never 6.
	item := domain.CartItem{Product: stockedProduct("x", 5), Quantity: 2}
	for i := 0; i < 3; i++ {
		require.NoError(t, mgr.Increment(context.Background(), item))
		item.Quantity = backend.updates[len(backend.updates)-1].Quantity
	}

	require.Len(t, backend.updates, 3)
	assert.Equal(t, 3, backend.updates[0].Quantity)
	assert.Equal(t, 4, backend.updates[1].Quantity)
	assert.Equal(t, 5, backend.updates[2].Quantity)
}

func TestDecrement_NeverBelowOne(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, _ := newTestManager(backend)
	defer store.Close()

	item := domain.CartItem{Product: stockedProduct("x", 5), Quantity: 1}
	require.NoError(t, mgr.Decrement(context.Background(), item))
	require.Len(t, backend.updates, 1)
	assert.Equal(t, 1, backend.updates[0].Quantity)
}

func TestSetColor_ReissuesUpdateWithCurrentQuantity(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, _ := newTestManager(backend)
	defer store.Close()

	product := stockedProduct("x", 5)
	product.Colors = []string{"white", "beige"}
	item := domain.CartItem{Product: product, Quantity: 3, Color: "white"}

	require.NoError(t, mgr.SetColor(context.Background(), item, "beige"))
	require.Len(t, backend.updates, 1)
	assert.Equal(t, api.CartUpdate{ProductID: "x", Quantity: 3, Color: "beige"}, backend.updates[0])
}

func TestSetColor_RejectsUndeclaredColor(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, _ := newTestManager(backend)
	defer store.Close()

	item := domain.CartItem{Product: stockedProduct("x", 5), Quantity: 1}
	err := mgr.SetColor(context.Background(), item, "crimson")
	require.Error(t, err)
	assert.Empty(t, backend.updates, "no mutation for an invalid color")
}

func TestClear_DeclinedConfirmationIsNoOp(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, _ := newTestManager(backend)
	defer store.Close()

	require.NoError(t, mgr.Clear(context.Background(), func() bool { return false }))
	assert.Zero(t, backend.cleared)

	require.NoError(t, mgr.Clear(context.Background(), func() bool { return true }))
	assert.Equal(t, 1, backend.cleared)
}

func TestCheckout_PartitionsMixedOutcome(t *testing.T) {
	backend := &mockBackend{
		checkout: &domain.CheckoutResult{
			AvailableProducts: []domain.OrderLine{
				{ProductID: "a", Name: "A", Quantity: 1, Price: 250},
			},
			UnavailableProducts: []domain.UnavailableProduct{
				{Name: "B", Reason: "out of stock"},
			},
			TotalAmount: 250,
		},
	}
	mgr, store, recorder := newTestManager(backend)
	defer store.Close()

	// Seed the cart cache so invalidation is observable.
	_, err := mgr.Cart(context.Background())
	require.NoError(t, err)

	result, err := mgr.Checkout(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.AvailableProducts, 1)

	require.Len(t, recorder.Successes, 1)
	assert.Equal(t, "ordered 1 properties, total 250.00", recorder.Successes[0])
	require.Len(t, recorder.Warnings, 1)
	assert.Equal(t, "B: out of stock", recorder.Warnings[0])

	// The cart key is invalidated even though part of the checkout failed.
	res, ok := store.Get(CacheKey)
	require.True(t, ok)
	assert.True(t, res.Stale)
}

func TestCheckout_HTTPErrorLeavesCartCacheFresh(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, recorder := newTestManager(backend)

	_, err := mgr.Cart(context.Background())
	require.NoError(t, err)

	backend.err = errors.New("network down")
	_, err = mgr.Checkout(context.Background())
	require.Error(t, err)
	require.Len(t, recorder.Errors, 1)

	res, ok := store.Get(CacheKey)
	require.True(t, ok)
	assert.False(t, res.Stale)
	store.Close()
}

func TestAdd_RejectsUnavailableProduct(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, _ := newTestManager(backend)
	defer store.Close()

	sold := stockedProduct("gone", 0)
	err := mgr.Add(context.Background(), &sold, 1, "")
	require.Error(t, err)
	assert.Empty(t, backend.adds)

	reserved := domain.Product{ID: "r", Name: "Reserved", State: domain.StateReserved}
	err = mgr.Add(context.Background(), &reserved, 1, "")
	require.Error(t, err)
	assert.Empty(t, backend.adds)
}

func TestAdd_InvalidatesCartCache(t *testing.T) {
	backend := &mockBackend{}
	mgr, store, _ := newTestManager(backend)
	defer store.Close()

	_, err := mgr.Cart(context.Background())
	require.NoError(t, err)

	product := stockedProduct("p", 4)
	require.NoError(t, mgr.Add(context.Background(), &product, 2, ""))
	require.Len(t, backend.adds, 1)
	assert.Equal(t, 2, backend.adds[0].Quantity)

	res, ok := store.Get(CacheKey)
	require.True(t, ok)
	assert.True(t, res.Stale)
}
