package catalog

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/forms"
)

// slugPattern accepts lowercase alphanumeric segments joined by single
// hyphens: no leading/trailing hyphen, no consecutive hyphens, no uppercase.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	// Report violations under the submitted field names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		if name := strings.Split(fld.Tag.Get("json"), ",")[0]; name != "" && name != "-" {
			return name
		}
		return fld.Name
	})
}

// defaultImageAlt is used when an uploaded image arrives without alt text.
const defaultImageAlt = "Product image"

// CategoryInput is a validated category submission.
type CategoryInput struct {
	Name        string  `form:"name" validate:"min=3,max=50"`
	Slug        string  `form:"slug" validate:"min=3,max=50,slug"`
	Description *string `form:"description" validate:"omitempty,max=2000"`
}

// ProductInput is a validated product submission. Options and Variants are
// submitted as JSON-encoded fields; Variants are regenerated server side
// from Options before persisting (see BuildVariants).
type ProductInput struct {
	Name        string    `form:"name" validate:"min=3,max=127"`
	Slug        string    `form:"slug" validate:"min=3,max=50,slug"`
	Description *string   `form:"description" validate:"omitempty,max=2000"`
	Price       float64   `form:"price" validate:"gt=0,lt=1000000000"`
	Stock       int64     `form:"stock" validate:"gt=0,lt=1000000000"`
	CategoryIDs []int64   `form:"categoryIds" validate:"min=1,dive,gt=0"`
	Images      []Image   `form:"images"`
	Options     []Option  `form:"options" validate:"omitempty,dive"`
	Variants    []Variant `form:"variants" validate:"omitempty,dive"`
}

var categoryFields = map[string]bool{
	"name":        true,
	"slug":        true,
	"description": true,
}

var productFields = map[string]bool{
	"name":        true,
	"slug":        true,
	"description": true,
	"price":       true,
	"stock":       true,
	"categoryIds": true,
	"images":      true,
	"imageAlts":   true,
	"options":     true,
	"variants":    true,
}

// DecodeCategoryForm coerces and validates a category submission. On
// failure it returns every violated constraint; the caller still holds the
// raw data for redisplay.
func DecodeCategoryForm(data forms.Data) (*CategoryInput, *forms.Errors) {
	errs := &forms.Errors{}
	rejectUnknownFields(data, categoryFields, errs)

	in := &CategoryInput{
		Name: strings.TrimSpace(data.String("name")),
		Slug: strings.TrimSpace(data.String("slug")),
	}
	if desc := strings.TrimSpace(data.String("description")); desc != "" {
		in.Description = &desc
	}

	validateStruct(in, errs, nil)
	if errs.Any() {
		return nil, errs
	}
	return in, nil
}

// DecodeProductForm coerces and validates a product submission.
func DecodeProductForm(data forms.Data) (*ProductInput, *forms.Errors) {
	errs := &forms.Errors{}
	rejectUnknownFields(data, productFields, errs)

	in := &ProductInput{
		Name:        strings.TrimSpace(data.String("name")),
		Slug:        strings.TrimSpace(data.String("slug")),
		Price:       data.Price("price", errs),
		Stock:       data.Count("stock", errs),
		CategoryIDs: data.IDs("categoryIds", errs),
	}
	if desc := strings.TrimSpace(data.String("description")); desc != "" {
		in.Description = &desc
	}

	// Images arrive as one URL per field occurrence; alt texts (optional)
	// are matched by position.
	alts := data["imageAlts"].Strings()
	for i, u := range data.URLs("images", errs) {
		img := Image{URL: u, Alt: defaultImageAlt}
		if i < len(alts) && strings.TrimSpace(alts[i]) != "" {
			img.Alt = strings.TrimSpace(alts[i])
		}
		in.Images = append(in.Images, img)
	}

	if raw := strings.TrimSpace(data.String("options")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Options); err != nil {
			errs.Add("options", "is not a valid option list")
		}
	}
	if raw := strings.TrimSpace(data.String("variants")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Variants); err != nil {
			errs.Add("variants", "is not a valid variant list")
		}
	}

	// A field that already failed coercion sits at its zero value; running
	// the range rules over it would report the same field twice.
	coerceFailed := make(map[string]bool, len(errs.Fields))
	for _, fe := range errs.Fields {
		coerceFailed[fe.Field] = true
	}

	validateStruct(in, errs, coerceFailed)
	if errs.Any() {
		return nil, errs
	}
	return in, nil
}

// rejectUnknownFields enforces strict mode: any submitted key outside the
// declared shape fails validation.
func rejectUnknownFields(data forms.Data, allowed map[string]bool, errs *forms.Errors) {
	for key := range data {
		if !allowed[key] {
			errs.Add(key, "is not a recognized field")
		}
	}
}

// validateStruct runs the rule set and appends every violation, so the
// summary names all failing constraints rather than the first one. Fields
// in skip already carry a coercion error and are not reported again.
func validateStruct(in any, errs *forms.Errors, skip map[string]bool) {
	err := validate.Struct(in)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("form", "could not be validated")
		return
	}
	for _, fe := range verrs {
		path := fieldPath(fe)
		if skip[path] {
			continue
		}
		errs.Add(path, "%s", constraintMessage(fe))
	}
}

// fieldPath strips the root struct name from the namespace, leaving e.g.
// "options[0].values".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func constraintMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must have at least " + fe.Param() + " entries"
	case "max":
		if isString {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must have at most " + fe.Param() + " entries"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "slug":
		return "must contain only lowercase letters, digits, and single hyphens"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
