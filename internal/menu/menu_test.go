package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogComplete(t *testing.T) {
	for _, item := range Items {
		assert.True(t, Known(item), "item %q should be known", item)
		assert.Greater(t, Price(item), 0.0, "item %q should have a price", item)

		desc, ok := Describe(item)
		assert.True(t, ok, "item %q should have a description", item)
		assert.NotEmpty(t, desc)
	}
}

func TestUnknownItem(t *testing.T) {
	assert.False(t, Known("pizza"))
	assert.Equal(t, 0.0, Price("pizza"))

	_, ok := Describe("pizza")
	assert.False(t, ok)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "€4.50", FormatPrice(4.5))
	assert.Equal(t, "€15.00", FormatPrice(15))
	assert.Equal(t, "€0.00", FormatPrice(0))
}
