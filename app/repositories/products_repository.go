package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const photoColumn = "photo"

// ProductFilter narrows a product query. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryIDs []string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product, withPhoto bool) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetPhoto(ctx context.Context, id string) (*models.Product, error)
	GetLatest(ctx context.Context, limit int) ([]models.Product, error)
	GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, error)
	Filter(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	GetRelated(ctx context.Context, productID, categoryID string, limit int) ([]models.Product, error)
	GetByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error)
	CountByCategoryID(ctx context.Context, categoryID string) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db}
}

// listing starts a query that never loads the photo blob.
func (p *productRepository) listing(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).Model(&models.Product{}).Omit(photoColumn)
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(p.db.WithContext(ctx).Omit("Category").Create(product).Error)
}

func (p *productRepository) Update(ctx context.Context, product *models.Product, withPhoto bool) error {
	columns := []string{"name", "slug", "description", "price", "category_id", "quantity", "shipping", "updated_at"}
	if withPhoto {
		columns = append(columns, photoColumn, "photo_content_type")
	}
	product.UpdatedAt = time.Now()

	res := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select(columns).
		Updates(product)
	return translate(res.Error)
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	res := p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.listing(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := p.listing(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.listing(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (p *productRepository) GetPhoto(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Select("id", photoColumn, "photo_content_type").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (p *productRepository) GetLatest(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := p.listing(ctx).
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (p *productRepository) GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, error) {
	products := []models.Product{}
	err := p.listing(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (p *productRepository) Filter(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	products := []models.Product{}

	query := p.listing(ctx)
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (p *productRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}

func (p *productRepository) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	products := []models.Product{}
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"

	err := p.listing(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (p *productRepository) GetRelated(ctx context.Context, productID, categoryID string, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := p.listing(ctx).
		Preload("Category").
		Where("category_id = ? AND id <> ?", categoryID, productID).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (p *productRepository) GetByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error) {
	products := []models.Product{}
	err := p.listing(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (p *productRepository) CountByCategoryID(ctx context.Context, categoryID string) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error
	if err != nil {
		return 0, translate(err)
	}
	return total, nil
}

// escapeLike makes %, _ and the escape character itself match literally
// under MySQL's default LIKE escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
