package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/forms"
)

// The demo catalog goes through the normal validation path at seed time,
// so every entry must satisfy the same constraints as an admin submission.
func TestSeedDataPassesValidation(t *testing.T) {
	slugs := map[string]bool{}
	for i := range seedCategories {
		c := &seedCategories[i]

		errs := &forms.Errors{}
		validateStruct(c, errs, nil)
		assert.False(t, errs.Any(), "category %q: %s", c.Slug, errs.Error())

		assert.False(t, slugs[c.Slug], "duplicate category slug %q", c.Slug)
		slugs[c.Slug] = true
	}

	categoryBySlug := map[string]bool{}
	for i := range seedCategories {
		categoryBySlug[seedCategories[i].Slug] = true
	}

	productSlugs := map[string]bool{}
	for _, sp := range seedProducts {
		in := sp.input
		in.CategoryIDs = []int64{1} // resolved from slugs at seed time

		errs := &forms.Errors{}
		validateStruct(&in, errs, nil)
		assert.False(t, errs.Any(), "product %q: %s", in.Slug, errs.Error())

		assert.False(t, productSlugs[in.Slug], "duplicate product slug %q", in.Slug)
		productSlugs[in.Slug] = true

		assert.NotEmpty(t, sp.categories, "product %q has no categories", in.Slug)
		for _, slug := range sp.categories {
			assert.True(t, categoryBySlug[slug], "product %q references unknown category %q", in.Slug, slug)
		}
	}
}

func TestSeedProductsWithOptionsProduceVariants(t *testing.T) {
	found := false
	for _, sp := range seedProducts {
		if len(sp.input.Options) == 0 {
			continue
		}
		found = true

		variants := BuildVariants(sp.input.Options, nil, sp.input.Price, sp.input.Stock)
		assert.NotEmpty(t, variants, "product %q options produced no variants", sp.input.Slug)

		want := 1
		for _, opt := range sp.input.Options {
			want *= len(opt.Values)
		}
		assert.Len(t, variants, want)
	}
	assert.True(t, found, "seed data should exercise variant generation")
}
