package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductQueryNormalization(t *testing.T) {
	q := ProductQuery{Page: 0, PageSize: 0}.normalized()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)

	q = ProductQuery{Page: -3, PageSize: 12}.normalized()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 12, q.PageSize)

	assert.Equal(t, 0, ProductQuery{Page: 1, PageSize: 8}.offset())
	assert.Equal(t, 16, ProductQuery{Page: 3, PageSize: 8}.offset())
}

func TestBuildSQLTextSearchUsesIndexWhenAvailable(t *testing.T) {
	stmts := ProductQuery{Search: "tee", TextIndex: true}.buildSQL()

	assert.Contains(t, stmts.data, "plainto_tsquery('english', $1)")
	assert.Contains(t, stmts.data, "ts_rank")
	assert.NotContains(t, stmts.data, "ILIKE")
	require.Len(t, stmts.countArgs, 1)
	assert.Equal(t, "tee", stmts.countArgs[0])
}

func TestBuildSQLTextSearchFallsBackToSubstring(t *testing.T) {
	stmts := ProductQuery{Search: "tee", TextIndex: false}.buildSQL()

	assert.Contains(t, stmts.data, "ILIKE")
	assert.NotContains(t, stmts.data, "ts_rank")
	require.Len(t, stmts.countArgs, 1)
	assert.Equal(t, "%tee%", stmts.countArgs[0])
}

func TestBuildSQLSortMapping(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"price_asc", "ORDER BY p.price ASC"},
		{"price_desc", "ORDER BY p.price DESC"},
		{"name_asc", "ORDER BY p.name ASC"},
		{"name_desc", "ORDER BY p.name DESC"},
		{"", "ORDER BY p.name DESC"},
		{"bogus", "ORDER BY p.name DESC"},
	}

	for _, tt := range tests {
		t.Run("sort "+tt.sort, func(t *testing.T) {
			stmts := ProductQuery{Sort: tt.sort}.buildSQL()
			assert.Contains(t, stmts.data, tt.want)
		})
	}
}

func TestBuildSQLRankedDefaultSort(t *testing.T) {
	// A ranked text search without an explicit sort orders by relevance.
	stmts := ProductQuery{Search: "tee", TextIndex: true}.buildSQL()
	assert.Contains(t, stmts.data, "ts_rank(p.fts, plainto_tsquery('english', $1)) DESC")

	// An explicit sort key overrides relevance ordering.
	stmts = ProductQuery{Search: "tee", TextIndex: true, Sort: "price_asc"}.buildSQL()
	assert.Contains(t, stmts.data, "ORDER BY p.price ASC")
}

func TestBuildSQLCategoryPredicate(t *testing.T) {
	stmts := ProductQuery{CategorySlug: "apparel"}.buildSQL()

	assert.Contains(t, stmts.data, "c.slug = $1")
	assert.Contains(t, stmts.count, "c.slug = $1")
	require.Len(t, stmts.countArgs, 1)
	assert.Equal(t, "apparel", stmts.countArgs[0])
}

func TestBuildSQLCountSharesPredicateWithData(t *testing.T) {
	stmts := ProductQuery{Search: "tee", CategorySlug: "apparel", TextIndex: true, Page: 2, PageSize: 8}.buildSQL()

	// The count statement sees exactly the predicate args; the data
	// statement adds limit and offset on top.
	require.Len(t, stmts.countArgs, 2)
	require.Len(t, stmts.dataArgs, 4)
	assert.Equal(t, stmts.countArgs, stmts.dataArgs[:2])
	assert.Equal(t, 8, stmts.dataArgs[2])
	assert.Equal(t, 8, stmts.dataArgs[3])

	assert.Contains(t, stmts.data, "LIMIT $3 OFFSET $4")
}

func TestBuildSQLNoFilters(t *testing.T) {
	stmts := ProductQuery{}.buildSQL()

	assert.NotContains(t, stmts.data, "WHERE")
	assert.Empty(t, stmts.countArgs)
	require.Len(t, stmts.dataArgs, 2)
	assert.Equal(t, DefaultPageSize, stmts.dataArgs[0])
	assert.Equal(t, 0, stmts.dataArgs[1])
}
