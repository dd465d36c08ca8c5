package catalog

import (
	"fmt"
	"strings"
)

// DefaultPageSize matches the storefront grid size.
const DefaultPageSize = 8

// ProductQuery describes one storefront listing request. TextIndex reports
// whether the full-text search index is available; when it is not, free
// text queries fall back to case-insensitive substring matching on name
// and description, without relevance ranking.
type ProductQuery struct {
	Search       string
	CategorySlug string
	Sort         string // price_asc | price_desc | name_asc | name_desc | ""
	Page         int
	PageSize     int
	TextIndex    bool
}

func (q ProductQuery) normalized() ProductQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

func (q ProductQuery) offset() int {
	q = q.normalized()
	return (q.Page - 1) * q.PageSize
}

// productSQL carries the page statement and the count statement. Both are
// built from the same predicate and predicate arguments, so the total
// always describes the same candidate set as the returned page.
type productSQL struct {
	data      string
	dataArgs  []any
	count     string
	countArgs []any
}

func (q ProductQuery) buildSQL() productSQL {
	q = q.normalized()

	var (
		where []string
		args  []any
		rank  string
	)

	if q.Search != "" {
		if q.TextIndex {
			args = append(args, q.Search)
			n := len(args)
			where = append(where, fmt.Sprintf("p.fts @@ plainto_tsquery('english', $%d)", n))
			rank = fmt.Sprintf("ts_rank(p.fts, plainto_tsquery('english', $%d))", n)
		} else {
			args = append(args, "%"+q.Search+"%")
			n := len(args)
			where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", n, n))
		}
	}

	if q.CategorySlug != "" {
		args = append(args, q.CategorySlug)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id WHERE pc.product_id = p.id AND c.slug = $%d)",
			len(args)))
	}

	predicate := ""
	if len(where) > 0 {
		predicate = "WHERE " + strings.Join(where, " AND ")
	}

	var orderBy string
	switch q.Sort {
	case "price_asc":
		orderBy = "p.price ASC, p.id ASC"
	case "price_desc":
		orderBy = "p.price DESC, p.id ASC"
	case "name_asc":
		orderBy = "p.name ASC, p.id ASC"
	case "name_desc":
		orderBy = "p.name DESC, p.id ASC"
	default:
		if rank != "" {
			orderBy = rank + " DESC, p.name ASC"
		} else {
			orderBy = "p.name DESC, p.id ASC"
		}
	}

	countArgs := args[:len(args):len(args)]
	dataArgs := append(countArgs, q.PageSize, q.offset())

	return productSQL{
		data: fmt.Sprintf(`
			SELECT p.id, p.name, p.slug, p.description, p.price, p.stock, p.created_at, p.updated_at
			FROM products p
			%s
			ORDER BY %s
			LIMIT $%d OFFSET $%d`, predicate, orderBy, len(dataArgs)-1, len(dataArgs)),
		dataArgs:  dataArgs,
		count:     fmt.Sprintf("SELECT COUNT(*) FROM products p %s", predicate),
		countArgs: countArgs,
	}
}
