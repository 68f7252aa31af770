package listing

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"estate-front/internal/api"
	"estate-front/internal/cache"
	"estate-front/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListBackend struct {
	calls   int
	queries []url.Values
}

func (f *fakeListBackend) ListProducts(ctx context.Context, query url.Values) (*api.ProductPage, error) {
	f.calls++
	f.queries = append(f.queries, query)
	page, _ := strconv.Atoi(query.Get("page"))
	return &api.ProductPage{
		Data:       []domain.Product{{ID: "p1", Name: "Loft"}},
		Page:       page,
		TotalPages: 4,
		Total:      34,
	}, nil
}

func TestFetch_EchoesPageBoundsIntoModel(t *testing.T) {
	backend := &fakeListBackend{}
	store := cache.NewStore(nil)
	defer store.Close()

	svc := NewService(backend, store, 9)
	page, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 4, svc.Model.TotalPages())
	assert.True(t, svc.Model.HasNextPage())
}

func TestFetch_EqualFiltersHitTheCache(t *testing.T) {
	backend := &fakeListBackend{}
	store := cache.NewStore(nil)
	defer store.Close()

	svc := NewService(backend, store, 9)
	_, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	_, err = svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls, "identical filters reuse the cached page")

	svc.Model.SetCategory("houses")
	_, err = svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
	assert.Equal(t, "houses", backend.queries[1].Get("category"))
	assert.Equal(t, "1", backend.queries[1].Get("page"), "category change requests page 1")
}
