package fakers

import (
	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/gosimple/slug"
)

var categoryNames = []string{"Books", "Electronics", "Clothing", "Home & Kitchen", "Sports", "Toys"}

func CategoryFakers(n int) []*models.Category {
	if n <= 0 || n > len(categoryNames) {
		n = len(categoryNames)
	}
	categories := make([]*models.Category, 0, n)
	for _, name := range categoryNames[:n] {
		categories = append(categories, &models.Category{Name: name, Slug: slug.Make(name)})
	}
	return categories
}
