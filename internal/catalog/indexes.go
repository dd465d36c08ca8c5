package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// searchIndexName is the GIN index over the generated tsvector column.
// Listing handlers probe for it to decide between ranked full-text search
// and the substring fallback.
const searchIndexName = "products_search_idx"

var managedIndexes = []struct {
	name string
	ddl  string
}{
	{"categories_name_key", `CREATE UNIQUE INDEX IF NOT EXISTS categories_name_key ON categories (name)`},
	{"categories_slug_key", `CREATE UNIQUE INDEX IF NOT EXISTS categories_slug_key ON categories (slug)`},
	{"products_name_key", `CREATE UNIQUE INDEX IF NOT EXISTS products_name_key ON products (name)`},
	{"products_slug_key", `CREATE UNIQUE INDEX IF NOT EXISTS products_slug_key ON products (slug)`},
	{"products_price_idx", `CREATE INDEX IF NOT EXISTS products_price_idx ON products (price)`},
	{"products_name_idx", `CREATE INDEX IF NOT EXISTS products_name_idx ON products (name)`},
	{searchIndexName, `CREATE INDEX IF NOT EXISTS products_search_idx ON products USING GIN (fts)`},
}

// IndexManager creates and drops the catalog's runtime-managed indexes.
// The schema migrations deliberately leave these out: the app must keep
// serving reads and writes whether or not they exist.
type IndexManager struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewIndexManager(db *pgxpool.Pool, logger *zap.SugaredLogger) *IndexManager {
	return &IndexManager{db: db, logger: logger}
}

// EnsureIndexes creates every managed index. A failing index is logged and
// skipped rather than aborting the rest; queries degrade gracefully
// without them. Returns how many indexes were created or confirmed.
func (m *IndexManager) EnsureIndexes(ctx context.Context) int {
	ok := 0
	for _, idx := range managedIndexes {
		if _, err := m.db.Exec(ctx, idx.ddl); err != nil {
			m.logger.Warnw("index creation failed", "index", idx.name, "error", err)
			continue
		}
		ok++
	}
	return ok
}

// DropIndexes removes every managed index, including the uniqueness
// backstops. Intended for the maintenance endpoint only.
func (m *IndexManager) DropIndexes(ctx context.Context) int {
	dropped := 0
	for _, idx := range managedIndexes {
		if _, err := m.db.Exec(ctx, fmt.Sprintf("DROP INDEX IF EXISTS %s;", idx.name)); err != nil {
			m.logger.Warnw("index drop failed", "index", idx.name, "error", err)
			continue
		}
		dropped++
	}
	return dropped
}

// TextIndexExists probes the catalog for the full-text search index. An
// error counts as absent so the caller falls back to substring search.
func (m *IndexManager) TextIndexExists(ctx context.Context) bool {
	var exists bool
	err := m.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE tablename = 'products' AND indexname = $1
		);
	`, searchIndexName).Scan(&exists)
	if err != nil {
		m.logger.Warnw("text index probe failed", "error", err)
		return false
	}
	return exists
}
