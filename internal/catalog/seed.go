package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Maintenance bundles the destructive admin operations: seeding demo data
// and wiping the catalog.
type Maintenance struct {
	db         *pgxpool.Pool
	categories CategoryStore
	products   ProductStore
	logger     *zap.SugaredLogger
}

func NewMaintenance(db *pgxpool.Pool, categories CategoryStore, products ProductStore, logger *zap.SugaredLogger) *Maintenance {
	return &Maintenance{db: db, categories: categories, products: products, logger: logger}
}

var seedCategories = []CategoryInput{
	{Name: "Apparel", Slug: "apparel", Description: strptr("Shirts, hoodies, and everything wearable.")},
	{Name: "Drinkware", Slug: "drinkware", Description: strptr("Mugs, bottles, and tumblers.")},
	{Name: "Stickers", Slug: "stickers", Description: strptr("Die-cut vinyl stickers.")},
	{Name: "Accessories", Slug: "accessories", Description: strptr("Bags, caps, and small goods.")},
}

type seedProduct struct {
	input      ProductInput
	categories []string // category slugs, resolved to ids at seed time
}

var seedProducts = []seedProduct{
	{
		categories: []string{"apparel"},
		input: ProductInput{
			Name:        "Classic Logo Tee",
			Slug:        "classic-logo-tee",
			Description: strptr("Heavyweight cotton tee with the classic logo print."),
			Price:       24.00,
			Stock:       120,
			Images: []Image{
				{URL: "https://cdn.example.com/products/classic-logo-tee.png", Alt: "Classic Logo Tee"},
			},
			Options: []Option{
				{Name: "Size", Values: []string{"S", "M", "L", "XL"}},
				{Name: "Color", Values: []string{"Black", "White"}},
			},
		},
	},
	{
		categories: []string{"apparel"},
		input: ProductInput{
			Name:        "Zip Hoodie",
			Slug:        "zip-hoodie",
			Description: strptr("Fleece-lined zip hoodie with embroidered logo."),
			Price:       58.00,
			Stock:       60,
			Images: []Image{
				{URL: "https://cdn.example.com/products/zip-hoodie.png", Alt: "Zip Hoodie"},
			},
			Options: []Option{
				{Name: "Size", Values: []string{"S", "M", "L"}},
			},
		},
	},
	{
		categories: []string{"drinkware"},
		input: ProductInput{
			Name:        "Enamel Camp Mug",
			Slug:        "enamel-camp-mug",
			Description: strptr("12oz enamel mug, dishwasher safe."),
			Price:       16.50,
			Stock:       200,
			Images: []Image{
				{URL: "https://cdn.example.com/products/enamel-camp-mug.png", Alt: "Enamel Camp Mug"},
			},
		},
	},
	{
		categories: []string{"drinkware"},
		input: ProductInput{
			Name:        "Insulated Bottle",
			Slug:        "insulated-bottle",
			Description: strptr("750ml double-walled stainless bottle, keeps drinks cold all day."),
			Price:       32.00,
			Stock:       85,
			Images: []Image{
				{URL: "https://cdn.example.com/products/insulated-bottle.png", Alt: "Insulated Bottle"},
			},
		},
	},
	{
		categories: []string{"stickers"},
		input: ProductInput{
			Name:        "Sticker Pack",
			Slug:        "sticker-pack",
			Description: strptr("Five assorted die-cut stickers."),
			Price:       6.00,
			Stock:       500,
			Images: []Image{
				{URL: "https://cdn.example.com/products/sticker-pack.png", Alt: "Sticker Pack"},
			},
		},
	},
	{
		categories: []string{"accessories", "apparel"},
		input: ProductInput{
			Name:        "Corduroy Cap",
			Slug:        "corduroy-cap",
			Description: strptr("Adjustable corduroy cap with stitched patch."),
			Price:       28.00,
			Stock:       45,
			Images: []Image{
				{URL: "https://cdn.example.com/products/corduroy-cap.png", Alt: "Corduroy Cap"},
			},
		},
	},
	{
		categories: []string{"accessories"},
		input: ProductInput{
			Name:        "Canvas Tote",
			Slug:        "canvas-tote",
			Description: strptr("Natural canvas tote with reinforced handles."),
			Price:       18.00,
			Stock:       140,
			Images: []Image{
				{URL: "https://cdn.example.com/products/canvas-tote.png", Alt: "Canvas Tote"},
			},
		},
	},
}

func strptr(s string) *string { return &s }

// ErrNotEmpty guards the seed endpoint against clobbering a live catalog.
var ErrNotEmpty = fmt.Errorf("catalog is not empty")

// Seed loads the demo catalog through the normal repositories, so seeded
// records pass the same collision checks and variant generation as admin
// submissions. Refuses to run when the catalog already has data.
func (m *Maintenance) Seed(ctx context.Context) (categories, products int, err error) {
	existing, err := m.categories.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	if existing > 0 {
		return 0, 0, ErrNotEmpty
	}

	idBySlug := make(map[string]int64, len(seedCategories))
	for i := range seedCategories {
		c, err := m.categories.Create(ctx, &seedCategories[i])
		if err != nil {
			return categories, products, fmt.Errorf("seed category %q: %w", seedCategories[i].Slug, err)
		}
		idBySlug[c.Slug] = c.ID
		categories++
	}

	for i := range seedProducts {
		sp := seedProducts[i]
		in := sp.input
		in.CategoryIDs = in.CategoryIDs[:0]
		for _, slug := range sp.categories {
			in.CategoryIDs = append(in.CategoryIDs, idBySlug[slug])
		}
		if _, err := m.products.Create(ctx, &in); err != nil {
			return categories, products, fmt.Errorf("seed product %q: %w", in.Slug, err)
		}
		products++
	}

	m.logger.Infow("catalog seeded", "categories", categories, "products", products)
	return categories, products, nil
}

// Clear wipes every catalog table and resets the id sequences. Child
// tables go with the products via the cascade.
func (m *Maintenance) Clear(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `TRUNCATE products, categories RESTART IDENTITY CASCADE;`)
	if err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	m.logger.Infow("catalog cleared")
	return nil
}
