package seeders

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/ecommerce-api/app/db/fakers"
	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DBSeed creates demo categories (reusing existing ones by name) and
// productsPerCategory random products in each.
func DBSeed(ctx context.Context, db *gorm.DB, categories, productsPerCategory int, log zerolog.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, category := range fakers.CategoryFakers(categories) {
			if err := tx.Where(models.Category{Name: category.Name}).FirstOrCreate(category).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", category.Name, err)
			}

			for i := 0; i < productsPerCategory; i++ {
				product := fakers.ProductFaker(category)
				if err := tx.Omit("Category").Create(product).Error; err != nil {
					return fmt.Errorf("seed product %q: %w", product.Name, err)
				}
			}
			log.Info().Str("category", category.Name).Int("products", productsPerCategory).Msg("seeded category")
		}
		return nil
	})
}
