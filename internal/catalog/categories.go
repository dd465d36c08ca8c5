package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryStore is the data access abstraction for categories.
type CategoryStore interface {
	Create(ctx context.Context, in *CategoryInput) (*Category, error)
	Update(ctx context.Context, id int64, in *CategoryInput) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Count(ctx context.Context) (int, error)
}

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a validated category after checking for an existing record
// with the same name or slug. The unique indexes remain the authoritative
// backstop: a race loser still gets the duplicate error, mapped from the
// database unique violation.
func (r *CategoryRepository) Create(ctx context.Context, in *CategoryInput) (*Category, error) {
	if dup, err := r.findCollision(ctx, in.Name, in.Slug, 0); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, dup
	}

	query := `
		INSERT INTO categories (name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, name, slug, description, created_at, updated_at;
	`
	c := &Category{}
	err := r.db.QueryRow(ctx, query, in.Name, in.Slug, in.Description).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dup := duplicateFromPg(err, "category", in.Name, in.Slug); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update applies a partial update: the validated fields plus a refreshed
// updated_at. created_at is untouched. The collision search excludes the
// record being updated.
func (r *CategoryRepository) Update(ctx context.Context, id int64, in *CategoryInput) (*Category, error) {
	if dup, err := r.findCollision(ctx, in.Name, in.Slug, id); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, dup
	}

	query := `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, updated_at = now()
		WHERE id = $4
		RETURNING id, name, slug, description, created_at, updated_at;
	`
	c := &Category{}
	err := r.db.QueryRow(ctx, query, in.Name, in.Slug, in.Description, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if dup := duplicateFromPg(err, "category", in.Name, in.Slug); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories
		ORDER BY name ASC;
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return list, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	c := &Category{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories WHERE slug = $1;
	`, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// findCollision looks for an existing category whose name or slug matches,
// excluding excludeID (0 for creates). Name collisions win over slug
// collisions when both would fail.
func (r *CategoryRepository) findCollision(ctx context.Context, name, slug string, excludeID int64) (*DuplicateError, error) {
	var existingName, existingSlug string
	err := r.db.QueryRow(ctx, `
		SELECT name, slug FROM categories
		WHERE (name = $1 OR slug = $2) AND id <> $3
		ORDER BY (name = $1) DESC
		LIMIT 1;
	`, name, slug, excludeID).Scan(&existingName, &existingSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("check category collision: %w", err)
	}
	if existingName == name {
		return &DuplicateError{Entity: "category", Field: "name", Value: name}, nil
	}
	return &DuplicateError{Entity: "category", Field: "slug", Value: slug}, nil
}

// duplicateFromPg maps a unique-index violation (the backstop for the
// read-then-write collision check) onto the same friendly duplicate error.
// Only the managed name/slug indexes qualify; a 23505 on any other
// constraint is not a catalog collision and stays a plain error.
func duplicateFromPg(err error, entity, name, slug string) *DuplicateError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case entity + "s_name_key":
		return &DuplicateError{Entity: entity, Field: "name", Value: name}
	case entity + "s_slug_key":
		return &DuplicateError{Entity: entity, Field: "slug", Value: slug}
	}
	return nil
}
