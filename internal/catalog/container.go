package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Stores bundles the catalog's repositories and lifecycle helpers for
// injection into the HTTP layer.
type Stores struct {
	Categories  CategoryStore
	Products    ProductStore
	Indexes     *IndexManager
	Maintenance *Maintenance
}

func NewStores(db *pgxpool.Pool, logger *zap.SugaredLogger) *Stores {
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)
	return &Stores{
		Categories:  categories,
		Products:    products,
		Indexes:     NewIndexManager(db, logger),
		Maintenance: NewMaintenance(db, categories, products, logger),
	}
}
