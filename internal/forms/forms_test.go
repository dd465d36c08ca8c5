package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromURLValues(t *testing.T) {
	values := url.Values{}
	values.Set("name", "Tee")
	values.Add("categoryIds", "1")
	values.Add("categoryIds", "2")

	data := FromURLValues(values)

	assert.False(t, data["name"].IsList())
	assert.Equal(t, "Tee", data.String("name"))

	assert.True(t, data["categoryIds"].IsList())
	assert.Equal(t, []string{"1", "2"}, data["categoryIds"].Strings())
	// FormValue semantics: the scalar view of a list is its first element.
	assert.Equal(t, "1", data["categoryIds"].Scalar())
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{"plain", "24.00", 24.00, false},
		{"rounds up", "24.006", 24.01, false},
		{"rounds extra precision", "9.999", 10.00, false},
		{"trims whitespace", " 12.5 ", 12.5, false},
		{"empty", "", 0, false},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := &Errors{}
			data := Data{"price": Scalar(tt.raw)}

			got := data.Price("price", errs)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, errs.Any())
		})
	}
}

func TestCount(t *testing.T) {
	errs := &Errors{}
	data := Data{"stock": Scalar("120")}
	assert.Equal(t, int64(120), data.Count("stock", errs))
	assert.False(t, errs.Any())

	// Fractional counts are rejected, not truncated.
	errs = &Errors{}
	data = Data{"stock": Scalar("1.5")}
	assert.Equal(t, int64(0), data.Count("stock", errs))
	require.True(t, errs.Any())
	assert.Contains(t, errs.Fields[0].Message, "whole number")
}

func TestIDs(t *testing.T) {
	errs := &Errors{}
	data := Data{"categoryIds": List("1", "2", "3")}
	assert.Equal(t, []int64{1, 2, 3}, data.IDs("categoryIds", errs))
	assert.False(t, errs.Any())

	errs = &Errors{}
	data = Data{"categoryIds": List("1", "0", "-2", "x")}
	assert.Equal(t, []int64{1}, data.IDs("categoryIds", errs))
	assert.Len(t, errs.Fields, 3)

	errs = &Errors{}
	assert.Nil(t, Data{}.IDs("categoryIds", errs))
	assert.False(t, errs.Any())
}

func TestURLs(t *testing.T) {
	errs := &Errors{}
	data := Data{"images": List("https://cdn.example.com/a.png", "http://cdn.example.com/b.png")}
	assert.Len(t, data.URLs("images", errs), 2)
	assert.False(t, errs.Any())

	for _, bad := range []string{"/relative/path.png", "not a url", "ftp:"} {
		errs := &Errors{}
		data := Data{"images": Scalar(bad)}
		assert.Empty(t, data.URLs("images", errs), "expected %q to be rejected", bad)
		assert.True(t, errs.Any(), "expected %q to be rejected", bad)
	}
}

func TestErrorsSummary(t *testing.T) {
	errs := &Errors{}
	errs.Add("name", "must be at least 3 characters")
	errs.Add("price", "must be greater than 0")

	assert.True(t, errs.Any())
	assert.Equal(t, "name must be at least 3 characters\nprice must be greater than 0", errs.Error())
}

func TestPlainEchoesSubmittedShape(t *testing.T) {
	data := Data{
		"name":        Scalar("Tee"),
		"categoryIds": List("1", "2"),
	}

	plain := data.Plain()

	assert.Equal(t, "Tee", plain["name"])
	assert.Equal(t, []string{"1", "2"}, plain["categoryIds"])
}
