package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/ecommerce-api/app/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndDuplicate(t *testing.T) {
	store := repotest.NewStore()
	svc := NewCategoryService(store.CategoryRepo(), nopLogger)
	ctx := context.Background()

	category, err := svc.Create(ctx, "Books")
	require.NoError(t, err)
	assert.Equal(t, "books", category.Slug)
	assert.NotEmpty(t, category.ID)

	_, err = svc.Create(ctx, "Books")
	assert.ErrorIs(t, err, ErrCategoryExists)
	assert.Equal(t, 1, store.CategoryCount())
}

func TestCategoryNameIsTrimmedAndCaseFolded(t *testing.T) {
	store := repotest.NewStore()
	svc := NewCategoryService(store.CategoryRepo(), nopLogger)
	ctx := context.Background()

	category, err := svc.Create(ctx, "  Books  ")
	require.NoError(t, err)
	assert.Equal(t, "Books", category.Name)

	for _, name := range []string{"books", " BOOKS", "Books\t"} {
		existing, err := svc.Create(ctx, name)
		assert.ErrorIs(t, err, ErrCategoryExists, name)
		require.NotNil(t, existing, name)
		assert.Equal(t, category.ID, existing.ID, name)
	}
	assert.Equal(t, 1, store.CategoryCount())
}

func TestCategoryCreateRequiresName(t *testing.T) {
	svc := NewCategoryService(repotest.NewStore().CategoryRepo(), nopLogger)

	_, err := svc.Create(context.Background(), "   ")
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "name", fieldErr.Field)
	assert.Equal(t, "Name is Required", fieldErr.Message)
}

func TestCategoryUpdate(t *testing.T) {
	store := repotest.NewStore()
	svc := NewCategoryService(store.CategoryRepo(), nopLogger)
	ctx := context.Background()

	_, err := svc.Update(ctx, "missing", "Games")
	assert.ErrorIs(t, err, ErrNotFound)

	category, err := svc.Create(ctx, "Books")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, category.ID, "Comic Books")
	require.NoError(t, err)
	assert.Equal(t, "Comic Books", updated.Name)
	assert.Equal(t, "comic-books", updated.Slug)

	got, err := svc.GetBySlug(ctx, "comic-books")
	require.NoError(t, err)
	assert.Equal(t, category.ID, got.ID)

	_, err = svc.GetBySlug(ctx, "books")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryDelete(t *testing.T) {
	store := repotest.NewStore()
	svc := NewCategoryService(store.CategoryRepo(), nopLogger)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)

	used := seedCategory(t, store, "Used")
	seedProduct(t, store, used, "Lamp", "10", 1)
	assert.ErrorIs(t, svc.Delete(ctx, used.ID), ErrCategoryInUse)

	empty := seedCategory(t, store, "Empty")
	require.NoError(t, svc.Delete(ctx, empty.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Used", list[0].Name)
}
