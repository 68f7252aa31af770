package contact

import (
	"context"
	"net/url"
	"testing"

	"estate-front/internal/api"
	"estate-front/internal/cache"
	"estate-front/internal/domain"
	"estate-front/internal/mutation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInboxBackend struct {
	listCalls  int
	statsCalls int
	queries    []url.Values
	updated    map[string]domain.ContactStatus
	deleted    []string
}

func (f *fakeInboxBackend) ListContacts(ctx context.Context, query url.Values) (*api.ContactPage, error) {
	f.listCalls++
	f.queries = append(f.queries, query)
	return &api.ContactPage{
		Contacts:   []domain.ContactMessage{{ID: "c1", Subject: "Viewing"}},
		Page:       1,
		TotalPages: 2,
		Total:      12,
	}, nil
}

func (f *fakeInboxBackend) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	if f.updated == nil {
		f.updated = map[string]domain.ContactStatus{}
	}
	f.updated[id] = status
	return nil
}

func (f *fakeInboxBackend) DeleteContact(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeInboxBackend) ContactStats(ctx context.Context) (*domain.ContactStats, error) {
	f.statsCalls++
	return &domain.ContactStats{Total: 12, Pending: 7}, nil
}

func newTestInbox(backend *fakeInboxBackend) (*Inbox, *cache.Store) {
	store := cache.NewStore(nil)
	runner := mutation.NewRunner(store, nil)
	return NewInbox(backend, store, runner, 10), store
}

func TestValues_OmitsAllStatusAndEmptySearch(t *testing.T) {
	f := Filters{Page: 2, Limit: 10, Status: StatusAll}
	v := f.Values()
	assert.Equal(t, "2", v.Get("page"))
	_, hasStatus := v["status"]
	assert.False(t, hasStatus)
	_, hasSearch := v["search"]
	assert.False(t, hasSearch)

	f.Status = string(domain.ContactPending)
	f.Search = "dana"
	v = f.Values()
	assert.Equal(t, "pending", v.Get("status"))
	assert.Equal(t, "dana", v.Get("search"))
}

func TestSetters_ResetThePage(t *testing.T) {
	backend := &fakeInboxBackend{}
	inbox, store := newTestInbox(backend)
	defer store.Close()

	inbox.SetPage(4)
	require.Equal(t, 4, inbox.Filters().Page)

	inbox.SetStatus("read")
	assert.Equal(t, 1, inbox.Filters().Page)

	inbox.SetPage(3)
	inbox.SetSearch("dana")
	assert.Equal(t, 1, inbox.Filters().Page)
}

func TestSetPage_RangeGuard(t *testing.T) {
	backend := &fakeInboxBackend{}
	inbox, store := newTestInbox(backend)
	defer store.Close()

	// Before the first response any positive page is accepted.
	inbox.SetPage(0)
	assert.Equal(t, 1, inbox.Filters().Page)
	inbox.SetPage(7)
	assert.Equal(t, 7, inbox.Filters().Page)

	// The response echoes the page bounds; from then on they are enforced.
	_, err := inbox.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inbox.TotalPages())
	assert.Equal(t, 1, inbox.Filters().Page, "the server's echoed page wins")

	inbox.SetPage(3)
	assert.Equal(t, 1, inbox.Filters().Page)
	inbox.SetPage(2)
	assert.Equal(t, 2, inbox.Filters().Page)
}

func TestFetch_CachesPerFilterCombination(t *testing.T) {
	backend := &fakeInboxBackend{}
	inbox, store := newTestInbox(backend)
	defer store.Close()

	_, err := inbox.Fetch(context.Background())
	require.NoError(t, err)
	_, err = inbox.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.listCalls)

	inbox.SetStatus("pending")
	_, err = inbox.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.listCalls)
	assert.Equal(t, "pending", backend.queries[1].Get("status"))
}

func TestUpdateStatus_InvalidatesInboxAndStats(t *testing.T) {
	backend := &fakeInboxBackend{}
	inbox, store := newTestInbox(backend)
	defer store.Close()

	_, err := inbox.Fetch(context.Background())
	require.NoError(t, err)
	_, err = inbox.Stats(context.Background())
	require.NoError(t, err)

	require.NoError(t, inbox.UpdateStatus(context.Background(), "c1", domain.ContactRead))
	assert.Equal(t, domain.ContactRead, backend.updated["c1"])

	listRes, ok := store.Get(inbox.Filters().Key())
	require.True(t, ok)
	assert.True(t, listRes.Stale)

	// Stats share the "contacts" prefix, so the same invalidation covers them.
	statsRes, ok := store.Get(cache.NewKey("contacts", "stats"))
	require.True(t, ok)
	assert.True(t, statsRes.Stale)
}

func TestDelete_InvalidatesInbox(t *testing.T) {
	backend := &fakeInboxBackend{}
	inbox, store := newTestInbox(backend)
	defer store.Close()

	_, err := inbox.Fetch(context.Background())
	require.NoError(t, err)

	require.NoError(t, inbox.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, backend.deleted)

	res, ok := store.Get(inbox.Filters().Key())
	require.True(t, ok)
	assert.True(t, res.Stale)
}
