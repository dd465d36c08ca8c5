package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// ProductStore is the data access abstraction for products.
type ProductStore interface {
	Create(ctx context.Context, in *ProductInput) (*Product, error)
	Update(ctx context.Context, id int64, in *ProductInput) (*Product, error)
	List(ctx context.Context, q ProductQuery) ([]*Product, int, error)
	ListAdmin(ctx context.Context, limit, offset int) ([]*Product, int, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Stats(ctx context.Context) (*Stats, error)
}

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Create validates referential integrity, checks for name/slug collisions,
// and inserts the product with its category links, images, options, and
// generated variants in one transaction.
func (r *ProductRepository) Create(ctx context.Context, in *ProductInput) (*Product, error) {
	if dup, err := r.findCollision(ctx, in.Name, in.Slug, 0); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, dup
	}
	if err := r.checkCategoriesExist(ctx, in.CategoryIDs); err != nil {
		return nil, err
	}

	variants := BuildVariants(in.Options, in.Variants, in.Price, in.Stock)

	p := &Product{}
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO products (name, slug, description, price, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			RETURNING id, name, slug, description, price, stock, created_at, updated_at;
		`, in.Name, in.Slug, in.Description, in.Price, in.Stock).
			Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			if dup := duplicateFromPg(err, "product", in.Name, in.Slug); dup != nil {
				return dup
			}
			return fmt.Errorf("insert product: %w", err)
		}
		return r.insertChildRows(ctx, tx, p.ID, in, variants)
	})
	if err != nil {
		return nil, err
	}

	p.CategoryIDs = in.CategoryIDs
	p.Images = in.Images
	p.Options = in.Options
	p.Variants = variants
	return p, nil
}

// Update applies the validated fields plus a refreshed updated_at, and
// replaces the category links, images, options, and variants. Variant
// price/SKU/stock/images survive an options edit when the optionValues
// sequence is unchanged: the preservation pool is the submitted variants
// when present, otherwise the variants currently stored.
func (r *ProductRepository) Update(ctx context.Context, id int64, in *ProductInput) (*Product, error) {
	if dup, err := r.findCollision(ctx, in.Name, in.Slug, id); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, dup
	}
	if err := r.checkCategoriesExist(ctx, in.CategoryIDs); err != nil {
		return nil, err
	}

	prior := in.Variants
	if len(prior) == 0 {
		current, err := r.loadVariants(ctx, r.db, id)
		if err != nil {
			return nil, err
		}
		prior = current
	}
	variants := BuildVariants(in.Options, prior, in.Price, in.Stock)

	p := &Product{}
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE products
			SET name = $1, slug = $2, description = $3, price = $4, stock = $5, updated_at = now()
			WHERE id = $6
			RETURNING id, name, slug, description, price, stock, created_at, updated_at;
		`, in.Name, in.Slug, in.Description, in.Price, in.Stock, id).
			Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			if dup := duplicateFromPg(err, "product", in.Name, in.Slug); dup != nil {
				return dup
			}
			return fmt.Errorf("update product: %w", err)
		}

		for _, table := range []string{"product_categories", "product_images", "product_options", "product_variants"} {
			if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE product_id = $1;", table), id); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return r.insertChildRows(ctx, tx, id, in, variants)
	})
	if err != nil {
		return nil, err
	}

	p.CategoryIDs = in.CategoryIDs
	p.Images = in.Images
	p.Options = in.Options
	p.Variants = variants
	return p, nil
}

func (r *ProductRepository) insertChildRows(ctx context.Context, tx pgx.Tx, productID int64, in *ProductInput, variants []Variant) error {
	for i, categoryID := range in.CategoryIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_categories (product_id, category_id, position)
			VALUES ($1, $2, $3);
		`, productID, categoryID, i); err != nil {
			return fmt.Errorf("link category %d: %w", categoryID, err)
		}
	}
	for i, img := range in.Images {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_images (product_id, url, alt, position)
			VALUES ($1, $2, $3, $4);
		`, productID, img.URL, img.Alt, i); err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}
	for i, opt := range in.Options {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_options (product_id, name, option_values, position)
			VALUES ($1, $2, $3, $4);
		`, productID, opt.Name, opt.Values, i); err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}
	for i, v := range variants {
		var sku *string
		if v.SKU != "" {
			sku = &v.SKU
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_variants (product_id, option_values, sku, price, stock, image_urls, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`, productID, v.OptionValues, sku, v.Price, v.Stock, v.ImageURLs, i); err != nil {
			return fmt.Errorf("insert variant: %w", err)
		}
	}
	return nil
}

// List runs the page and count statements concurrently, like the
// storefront always has. There is no transactional snapshot between them,
// so the total can drift from the page under concurrent writes.
func (r *ProductRepository) List(ctx context.Context, q ProductQuery) ([]*Product, int, error) {
	stmts := q.buildSQL()

	var (
		products []*Product
		total    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, stmts.data, stmts.dataArgs...)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		defer rows.Close()
		products, err = scanProducts(rows)
		return err
	})
	g.Go(func() error {
		if err := r.db.QueryRow(gctx, stmts.count, stmts.countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if err := r.attachListData(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAdmin is the unfiltered admin listing, newest first.
func (r *ProductRepository) ListAdmin(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	if limit < 1 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, p.slug, p.description, p.price, p.stock, p.created_at, p.updated_at
		FROM products p
		ORDER BY p.id DESC
		LIMIT $1 OFFSET $2;
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	if err := r.attachListData(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	p := &Product{}
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.name, p.slug, p.description, p.price, p.stock, p.created_at, p.updated_at
		FROM products p
		WHERE p.slug = $1;
	`, slug).Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	if err := r.attachListData(ctx, []*Product{p}); err != nil {
		return nil, err
	}

	optRows, err := r.db.Query(ctx, `
		SELECT name, option_values
		FROM product_options
		WHERE product_id = $1
		ORDER BY position ASC;
	`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	defer optRows.Close()
	for optRows.Next() {
		var opt Option
		if err := optRows.Scan(&opt.Name, &opt.Values); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		p.Options = append(p.Options, opt)
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	variants, err := r.loadVariants(ctx, r.db, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants

	return p, nil
}

// Stats backs the admin dashboard. Low stock means ten or fewer items;
// variants are not counted separately.
func (r *ProductRepository) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM products WHERE stock > 0 AND stock <= 10),
			(SELECT COUNT(*) FROM products WHERE stock = 0),
			COALESCE((SELECT AVG(price) FROM products), 0);
	`).Scan(&s.ProductCount, &s.CategoryCount, &s.LowStockCount, &s.OutOfStockCount, &s.AveragePrice)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	s.AveragePrice = math.Round(s.AveragePrice*100) / 100
	return s, nil
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *ProductRepository) loadVariants(ctx context.Context, q rowQuerier, productID int64) ([]Variant, error) {
	rows, err := q.Query(ctx, `
		SELECT option_values, COALESCE(sku, ''), price, stock, image_urls
		FROM product_variants
		WHERE product_id = $1
		ORDER BY position ASC;
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	defer rows.Close()

	var variants []Variant
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.OptionValues, &v.SKU, &v.Price, &v.Stock, &v.ImageURLs); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return variants, nil
}

// attachListData batch-loads the resolved categories and images for a page
// of products.
func (r *ProductRepository) attachListData(ctx context.Context, products []*Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(products))
	byID := make(map[int64]*Product, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	catRows, err := r.db.Query(ctx, `
		SELECT pc.product_id, c.id, c.name, c.slug, c.description, c.created_at, c.updated_at
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY pc.product_id, pc.position ASC;
	`, ids)
	if err != nil {
		return fmt.Errorf("load product categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var (
			productID int64
			c         Category
		)
		if err := catRows.Scan(&productID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan product category: %w", err)
		}
		p := byID[productID]
		p.Categories = append(p.Categories, c)
		p.CategoryIDs = append(p.CategoryIDs, c.ID)
	}
	if err := catRows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	imgRows, err := r.db.Query(ctx, `
		SELECT product_id, url, alt
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY product_id, position ASC;
	`, ids)
	if err != nil {
		return fmt.Errorf("load product images: %w", err)
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var (
			productID int64
			img       Image
		)
		if err := imgRows.Scan(&productID, &img.URL, &img.Alt); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		byID[productID].Images = append(byID[productID].Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	return nil
}

// checkCategoriesExist verifies every referenced category id, naming the
// missing ones.
func (r *ProductRepository) checkCategoriesExist(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx, `SELECT id FROM categories WHERE id = ANY($1);`, ids)
	if err != nil {
		return fmt.Errorf("check categories: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan category id: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	for _, id := range ids {
		if !found[id] {
			return &InvalidReferenceError{CategoryID: id}
		}
	}
	return nil
}

func (r *ProductRepository) findCollision(ctx context.Context, name, slug string, excludeID int64) (*DuplicateError, error) {
	var existingName, existingSlug string
	err := r.db.QueryRow(ctx, `
		SELECT name, slug FROM products
		WHERE (name = $1 OR slug = $2) AND id <> $3
		ORDER BY (name = $1) DESC
		LIMIT 1;
	`, name, slug, excludeID).Scan(&existingName, &existingSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("check product collision: %w", err)
	}
	if existingName == name {
		return &DuplicateError{Entity: "product", Field: "name", Value: name}, nil
	}
	return &DuplicateError{Entity: "product", Field: "slug", Value: slug}, nil
}

func scanProducts(rows pgx.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return products, nil
}
