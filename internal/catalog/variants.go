package catalog

// BuildVariants expands a product's options into the full set of
// purchasable combinations: the Cartesian product of every option's value
// list, in option declaration order and value declaration order within
// each option.
//
// A combination that already exists in prior keeps its price, SKU, stock,
// and images (matched on an identical optionValues sequence); a new
// combination inherits basePrice and baseStock. Products without complete
// options have no variants.
func BuildVariants(options []Option, prior []Variant, basePrice float64, baseStock int64) []Variant {
	if len(options) == 0 {
		return nil
	}
	for _, opt := range options {
		if opt.Name == "" || len(opt.Values) == 0 {
			return nil
		}
	}

	combinations := [][]string{{}}
	for _, opt := range options {
		next := make([][]string, 0, len(combinations)*len(opt.Values))
		for _, combo := range combinations {
			for _, value := range opt.Values {
				extended := make([]string, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, value))
			}
		}
		combinations = next
	}

	variants := make([]Variant, 0, len(combinations))
	for _, combo := range combinations {
		if existing := findVariant(prior, combo); existing != nil {
			v := *existing
			v.OptionValues = combo
			variants = append(variants, v)
			continue
		}
		variants = append(variants, Variant{
			OptionValues: combo,
			Price:        basePrice,
			Stock:        baseStock,
		})
	}
	return variants
}

func findVariant(variants []Variant, combo []string) *Variant {
	for i := range variants {
		if equalValues(variants[i].OptionValues, combo) {
			return &variants[i]
		}
	}
	return nil
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
