package fakers

import (
	"testing"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/stretchr/testify/assert"
)

func TestCategoryFakers(t *testing.T) {
	categories := CategoryFakers(4)
	assert.Len(t, categories, 4)
	assert.Equal(t, "home-and-kitchen", categories[3].Slug)

	assert.Len(t, CategoryFakers(0), len(categoryNames))
	assert.Len(t, CategoryFakers(100), len(categoryNames))
}

func TestProductFaker(t *testing.T) {
	category := &models.Category{ID: "cat-1", Name: "Books"}

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p := ProductFaker(category)
		assert.Equal(t, "cat-1", p.CategoryID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
		assert.True(t, p.Price.IsPositive())
		assert.GreaterOrEqual(t, p.Quantity, 1)
		assert.False(t, seen[p.Slug], p.Slug)
		seen[p.Slug] = true
	}
}
