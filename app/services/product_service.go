package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Rakhulsr/ecommerce-api/app/helpers"
	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	ListLimit    = 12
	PageSize     = 3
	RelatedLimit = 3
)

var validate = validator.New()

// ProductForm is the raw multipart input. Field order is the order in which
// required fields are checked.
type ProductForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Price       string `validate:"required"`
	Category    string `validate:"required"`
	Quantity    string `validate:"required"`
	Shipping    string
	Photo       *PhotoUpload
}

type PhotoUpload struct {
	Data        []byte
	ContentType string
	Size        int64
}

// FilterInput mirrors the storefront filter body: checked category ids and
// an optional [min, max] price pair.
type FilterInput struct {
	Checked []string          `json:"checked"`
	Radio   []decimal.Decimal `json:"radio"`
}

type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	logger     zerolog.Logger
}

func NewProductService(products repositories.ProductRepository, categories repositories.CategoryRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, form ProductForm) (*models.Product, error) {
	product := &models.Product{}
	if err := s.apply(ctx, product, form); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID).Str("slug", product.Slug).Msg("product created")
	return s.products.GetByID(ctx, product.ID)
}

// Update keeps the stored photo when the form carries none.
func (s *ProductService) Update(ctx context.Context, id string, form ProductForm) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, product, form); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product, form.Photo != nil); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}

// apply validates the whole form before touching product, so a rejected
// form leaves it unchanged.
func (s *ProductService) apply(ctx context.Context, product *models.Product, form ProductForm) error {
	form = normalizeForm(form)

	if err := validateInput(form); err != nil {
		return err
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil || price.IsNegative() {
		return newFieldError("price", "Price must be a non-negative number")
	}
	quantity, err := strconv.Atoi(form.Quantity)
	if err != nil || quantity < 0 {
		return newFieldError("quantity", "Quantity must be a non-negative integer")
	}
	shipping := false
	if form.Shipping != "" {
		if shipping, err = strconv.ParseBool(form.Shipping); err != nil {
			return newFieldError("shipping", "Shipping must be true or false")
		}
	}
	if form.Photo != nil && (form.Photo.Size > models.MaxPhotoSize || len(form.Photo.Data) > models.MaxPhotoSize) {
		return newFieldError("photo", "Photo should be less than 1mb")
	}

	category, err := s.categories.GetByID(ctx, form.Category)
	if errors.Is(err, repositories.ErrNotFound) {
		return newFieldError("category", "Category does not exist")
	}
	if err != nil {
		return err
	}

	product.Name = form.Name
	product.Slug = helpers.GenerateSlug(form.Name)
	product.Description = form.Description
	product.Price = price
	product.CategoryID = category.ID
	product.Category = category
	product.Quantity = quantity
	product.Shipping = shipping
	if form.Photo != nil {
		product.Photo = form.Photo.Data
		product.PhotoContentType = form.Photo.ContentType
	}
	return nil
}

func normalizeForm(form ProductForm) ProductForm {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Price = strings.TrimSpace(form.Price)
	form.Category = strings.TrimSpace(form.Category)
	form.Quantity = strings.TrimSpace(form.Quantity)
	form.Shipping = strings.TrimSpace(form.Shipping)
	return form
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.GetLatest(ctx, ListLimit)
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

// Photo returns ErrNotFound both for unknown products and for products
// stored without a photo.
func (s *ProductService) Photo(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetPhoto(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.HasPhoto() {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *ProductService) Filter(ctx context.Context, in FilterInput) ([]models.Product, error) {
	filter := repositories.ProductFilter{}
	for _, id := range in.Checked {
		if id = strings.TrimSpace(id); id != "" {
			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}

	switch len(in.Radio) {
	case 0:
	case 2:
		lo, hi := in.Radio[0], in.Radio[1]
		if lo.GreaterThan(hi) {
			return nil, newFieldError("radio", "Price range minimum must not exceed maximum")
		}
		filter.MinPrice, filter.MaxPrice = &lo, &hi
	default:
		return nil, newFieldError("radio", "Price range must have exactly two values")
	}

	return s.products.Filter(ctx, filter)
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

func ParsePage(raw string) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 0, newFieldError("page", "Page must be a positive integer")
	}
	return page, nil
}

// Page returns page number page of the newest-first listing. A page past
// the end is empty.
func (s *ProductService) Page(ctx context.Context, page int) ([]models.Product, error) {
	if page < 1 {
		return nil, newFieldError("page", "Page must be a positive integer")
	}
	// no catalog reaches this far; the offset would overflow int
	if page-1 > math.MaxInt/PageSize {
		return []models.Product{}, nil
	}
	return s.products.GetPaginated(ctx, PageSize, (page-1)*PageSize)
}

func (s *ProductService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return s.products.Search(ctx, keyword)
}

func (s *ProductService) Related(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	return s.products.GetRelated(ctx, productID, categoryID, RelatedLimit)
}

func (s *ProductService) ByCategory(ctx context.Context, slug string) (*models.Category, []models.Product, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.GetByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, nil, err
	}
	return category, products, nil
}
