// Package forms models HTML form submissions as a mapping of field name to
// a scalar-or-list value and provides the typed coercions the catalog
// schemas need (prices, counts, id lists, absolute URLs). Coercion problems
// are collected into an Errors value so a caller can report every violation
// at once and redisplay the submitted values.
package forms

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Value is either a single string or a list of strings, mirroring how
// repeated field names behave in form encoding.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar wraps a single string value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// List wraps a list of strings.
func List(ss ...string) Value {
	return Value{list: ss, isList: true}
}

// IsList reports whether the value came from a repeated field.
func (v Value) IsList() bool {
	return v.isList
}

// Scalar returns the value as a single string. For a list it returns the
// first element, matching FormValue semantics.
func (v Value) Scalar() string {
	if v.isList {
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	}
	return v.scalar
}

// Strings returns the value as a list. A scalar becomes a one-element list.
func (v Value) Strings() []string {
	if v.isList {
		return v.list
	}
	return []string{v.scalar}
}

// Data is a submitted form: field name to scalar-or-list value.
type Data map[string]Value

// FromURLValues converts parsed form data. A field submitted once stays a
// scalar, a repeated field collapses to a list.
func FromURLValues(values url.Values) Data {
	data := make(Data, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			data[key] = Scalar(vs[0])
			continue
		}
		data[key] = List(vs...)
	}
	return data
}

// Has reports whether the field was submitted at all.
func (d Data) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// String returns the scalar value of a field, or "" when absent.
func (d Data) String(field string) string {
	return d[field].Scalar()
}

// Plain flattens the data back to string/[]string for echoing submitted
// values to the client on validation failure.
func (d Data) Plain() map[string]any {
	out := make(map[string]any, len(d))
	for key, v := range d {
		if v.IsList() {
			out[key] = v.Strings()
			continue
		}
		out[key] = v.Scalar()
	}
	return out
}

// FieldError is a single violated constraint on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors aggregates every violated constraint of one submission.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *Errors) Any() bool {
	return len(e.Fields) > 0
}

// Error joins all field messages into one human-readable summary,
// one violation per line.
func (e *Errors) Error() string {
	lines := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		lines = append(lines, fe.Field+" "+fe.Message)
	}
	return strings.Join(lines, "\n")
}

// Price coerces a price field to a float rounded to two decimal places.
func (d Data) Price(field string, errs *Errors) float64 {
	raw := strings.TrimSpace(d.String(field))
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(field, "must be a number, got %q", raw)
		return 0
	}
	return math.Round(f*100) / 100
}

// Count coerces a count field to an integer. A fractional or otherwise
// non-integer string is rejected rather than truncated.
func (d Data) Count(field string, errs *Errors) int64 {
	raw := strings.TrimSpace(d.String(field))
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs.Add(field, "must be a whole number, got %q", raw)
		return 0
	}
	return n
}

// IDs coerces a scalar-or-list field into record identifiers. Every entry
// must be a positive integer.
func (d Data) IDs(field string, errs *Errors) []int64 {
	if !d.Has(field) {
		return nil
	}
	raws := d[field].Strings()
	ids := make([]int64, 0, len(raws))
	for _, raw := range raws {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs.Add(field, "%q is not a valid identifier", raw)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// URLs coerces a scalar-or-list field into absolute URLs. Relative or
// malformed entries are rejected.
func (d Data) URLs(field string, errs *Errors) []string {
	if !d.Has(field) {
		return nil
	}
	raws := d[field].Strings()
	urls := make([]string, 0, len(raws))
	for _, raw := range raws {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			errs.Add(field, "%q is not an absolute URL", raw)
			continue
		}
		urls = append(urls, raw)
	}
	return urls
}
