package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/multivend/marketd/internal/domain"
)

func TestProductRowSearchTextIsNamePlusID(t *testing.T) {
	stock := 3
	r := ProductRow{Product: domain.Product{
		ID:    424242,
		Name:  "Leather boot",
		Tags:  "wintersale",
		Stock: &stock,
	}}

	assert.Contains(t, r.SearchText(), "Leather boot")
	assert.Contains(t, r.SearchText(), "424242")
	// tags are filterable server-side but not part of the live search
	assert.NotContains(t, r.SearchText(), "wintersale")
}

func TestProductRowDraftFields(t *testing.T) {
	stock := 3
	r := ProductRow{Product: domain.Product{
		ID:            42,
		Name:          "Leather boot",
		CategoryID:    7,
		OriginalPrice: 89.90,
		Stock:         &stock,
		Status:        domain.ProductActive,
	}}

	fields := r.DraftFields()
	assert.Equal(t, "Leather boot", fields["name"])
	assert.Equal(t, int64(7), fields["category_id"])
	assert.Equal(t, 89.90, fields["original_price"])
	assert.Equal(t, 3, fields["stock"])
	// nil pointers stay out of the draft entirely
	assert.NotContains(t, fields, "transportation_type")
}
