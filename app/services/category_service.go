package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Rakhulsr/ecommerce-api/app/helpers"
	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/repositories"
	"github.com/rs/zerolog"
)

type CategoryService struct {
	repo   repositories.CategoryRepository
	logger zerolog.Logger
}

func NewCategoryService(repo repositories.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// Create returns ErrCategoryExists, without persisting anything, when a
// category with this name is already stored. The name is trimmed first and
// compared under the column collation, so "books" matches "Books".
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newFieldError("name", "Name is Required")
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, ErrCategoryExists
	}

	category := &models.Category{Name: name, Slug: helpers.GenerateSlug(name)}
	if err := s.repo.Create(ctx, category); err != nil {
		// lost a race against a concurrent create of the same name
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	s.logger.Info().Str("category_id", category.ID).Str("slug", category.Slug).Msg("category created")
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newFieldError("name", "Name is Required")
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = helpers.GenerateSlug(name)
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrReferenced) {
		return ErrCategoryInUse
	}
	return err
}
