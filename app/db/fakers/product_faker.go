package fakers

import (
	"math"
	"math/rand"
	"strings"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

func ProductFaker(category *models.Category) *models.Product {
	name := capitalize(faker.Word()) + " " + capitalize(faker.Word())
	slugText := slug.Make(name + "-" + uuid.NewString()[:6])

	return &models.Product{
		Name:        name,
		Slug:        slugText,
		Description: faker.Paragraph(),
		Price:       decimal.NewFromFloat(fakePrice()).Round(2),
		CategoryID:  category.ID,
		Quantity:    rand.Intn(20) + 1,
		Shipping:    rand.Intn(2) == 1,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func fakePrice() float64 {
	return precision(1000+rand.Float64()*math.Pow10(rand.Intn(4)+3), rand.Intn(2)+1)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
