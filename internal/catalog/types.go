package catalog

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Image is one entry of a product's master image list.
type Image struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt"`
}

// Option is a named axis of variation, e.g. Size with values S, M, L.
// The declaration order of options and of their values drives variant
// generation.
type Option struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values" validate:"required,min=1,dive,required"`
}

// Variant is a purchasable combination of option values with its own
// price and stock. OptionValues holds one value per option, in option
// declaration order.
type Variant struct {
	OptionValues []string `json:"optionValues"`
	SKU          string   `json:"sku,omitempty"`
	Price        float64  `json:"price" validate:"gte=0,lt=1000000000"`
	Stock        int64    `json:"stock" validate:"gte=0,lt=1000000000"`
	ImageURLs    []string `json:"images,omitempty"`
}

type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Stock       int64      `json:"stock"`
	CategoryIDs []int64    `json:"category_ids"`
	Categories  []Category `json:"categories,omitempty"`
	Images      []Image    `json:"images,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	Variants    []Variant  `json:"variants,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	ProductCount    int     `json:"product_count"`
	CategoryCount   int     `json:"category_count"`
	LowStockCount   int     `json:"low_stock_count"`
	OutOfStockCount int     `json:"out_of_stock_count"`
	AveragePrice    float64 `json:"average_price"`
}
