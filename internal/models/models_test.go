package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	return Product{
		Name:        "Tomatoes",
		Category:    "Vegetables",
		Price:       4.5,
		Quantity:    20,
		Description: "Fresh greenhouse tomatoes",
	}
}

func TestProduct_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validProduct().Validate())

	cases := []struct {
		name   string
		mutate func(*Product)
		want   error
	}{
		{"empty name", func(p *Product) { p.Name = "  " }, ErrNameRequired},
		{"empty category", func(p *Product) { p.Category = "" }, ErrCategoryRequired},
		{"empty description", func(p *Product) { p.Description = "" }, ErrDescriptionRequired},
		{"zero price", func(p *Product) { p.Price = 0 }, ErrPriceNotPositive},
		{"negative price", func(p *Product) { p.Price = -1 }, ErrPriceNotPositive},
		{"zero quantity", func(p *Product) { p.Quantity = 0 }, ErrQuantityNotPositive},
		{"negative quantity", func(p *Product) { p.Quantity = -3 }, ErrQuantityNotPositive},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := validProduct()
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tc.want)
		})
	}
}

func TestFilterProducts(t *testing.T) {
	t.Parallel()

	products := []Product{
		{Name: "Red Tomatoes", Category: "Vegetables", Description: "vine ripened"},
		{Name: "Green Apples", Category: "Fruit", Description: "crisp and tart"},
		{Name: "Honey", Category: "Other", Description: "from tomato-field hives"},
	}

	t.Run("matches name case-insensitively", func(t *testing.T) {
		t.Parallel()
		got := FilterProducts(products, "TOMATO")
		require.Len(t, got, 2)
		assert.Equal(t, "Red Tomatoes", got[0].Name)
		assert.Equal(t, "Honey", got[1].Name)
	})

	t.Run("matches category", func(t *testing.T) {
		t.Parallel()
		got := FilterProducts(products, "fruit")
		require.Len(t, got, 1)
		assert.Equal(t, "Green Apples", got[0].Name)
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, FilterProducts(products, "   "), 3)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FilterProducts(products, "durian"))
	})
}
