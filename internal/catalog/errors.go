package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a mutation targets an identifier that no
// longer exists.
var ErrNotFound = errors.New("record not found")

// DuplicateError reports a uniqueness collision with an existing record.
// When both name and slug would collide, the name collision is reported.
type DuplicateError struct {
	Entity string // "category" or "product"
	Field  string // "name" or "slug"
	Value  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("a %s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// InvalidReferenceError reports a product submission naming a category
// that does not exist.
type InvalidReferenceError struct {
	CategoryID int64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("category with ID %d does not exist", e.CategoryID)
}
