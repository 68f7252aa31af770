package listing

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_FilterChangesResetThePage(t *testing.T) {
	properties := gopter.NewProperties(nil)

	mutations := []struct {
		name  string
		apply func(*Model)
	}{
		{"SetName", func(m *Model) { m.SetName("villa") }},
		{"SetCategory", func(m *Model) { m.SetCategory("houses") }},
		{"SetPriceRange", func(m *Model) {
			min, max := 100.0, 900.0
			m.SetPriceRange(&min, &max)
		}},
		{"SetFeatured", func(m *Model) {
			f := true
			m.SetFeatured(&f)
		}},
		{"SetLimit", func(m *Model) { m.SetLimit(24) }},
		{"ToggleSort", func(m *Model) { m.ToggleSort("price") }},
	}

	properties.Property("every setter except SetPage lands on page 1", prop.ForAll(
		func(page int, pick int) bool {
			m := NewModel(9)
			m.ApplyResponse(1, 50)
			m.SetPage(page)

			mutations[pick%len(mutations)].apply(m)
			return m.Filters().Page == 1
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, len(mutations)-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSetPage_IgnoresOutOfRange(t *testing.T) {
	m := NewModel(9)

	// Before the first response any positive page is accepted.
	m.SetPage(7)
	assert.Equal(t, 7, m.Filters().Page)

	m.ApplyResponse(7, 10)
	m.SetPage(11)
	assert.Equal(t, 7, m.Filters().Page)
	m.SetPage(0)
	assert.Equal(t, 7, m.Filters().Page)
	m.SetPage(10)
	assert.Equal(t, 10, m.Filters().Page)
}

func TestPagination_Bounds(t *testing.T) {
	m := NewModel(9)
	assert.False(t, m.HasPrevPage())
	assert.False(t, m.HasNextPage(), "no next page before the server reports a count")

	m.ApplyResponse(1, 3)
	assert.True(t, m.HasNextPage())

	m.NextPage()
	m.NextPage()
	assert.Equal(t, 3, m.Filters().Page)
	assert.False(t, m.HasNextPage())
	m.NextPage()
	assert.Equal(t, 3, m.Filters().Page)

	m.PrevPage()
	assert.Equal(t, 2, m.Filters().Page)
	assert.True(t, m.HasPrevPage())
}

func TestToggleSort(t *testing.T) {
	m := NewModel(9)
	require.Equal(t, DefaultSort, m.Filters().Sort)
	require.Equal(t, OrderDesc, m.Filters().Order)

	// New column starts ascending.
	m.ToggleSort("price")
	assert.Equal(t, "price", m.Filters().Sort)
	assert.Equal(t, OrderAsc, m.Filters().Order)

	// Same column flips direction and resets the page.
	m.ApplyResponse(1, 5)
	m.SetPage(4)
	m.ToggleSort("price")
	assert.Equal(t, "price", m.Filters().Sort)
	assert.Equal(t, OrderDesc, m.Filters().Order)
	assert.Equal(t, 1, m.Filters().Page)

	m.ToggleSort("price")
	assert.Equal(t, OrderAsc, m.Filters().Order)
}

func TestValues_OmitsUnsetFilters(t *testing.T) {
	f := Default(9)
	v := f.Values()

	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "9", v.Get("limit"))
	assert.Equal(t, "createdAt", v.Get("sort"))
	assert.Equal(t, "desc", v.Get("order"))
	for _, absent := range []string{"name", "category", "minPrice", "maxPrice", "featured"} {
		_, ok := v[absent]
		assert.False(t, ok, "%s should be omitted when unset", absent)
	}

	min := 250.5
	f.Name = "loft"
	f.MinPrice = &min
	v = f.Values()
	assert.Equal(t, "loft", v.Get("name"))
	assert.Equal(t, "250.5", v.Get("minPrice"))
}

func TestKey_DeepEqualFiltersShareOneKey(t *testing.T) {
	max := 500.0
	a := Default(9)
	a.Category = "apartments"
	a.MaxPrice = &max

	maxB := 500.0
	b := Default(9)
	b.Category = "apartments"
	b.MaxPrice = &maxB

	assert.True(t, a.Key().Equal(b.Key()))

	b.Category = "houses"
	assert.False(t, a.Key().Equal(b.Key()))
}
