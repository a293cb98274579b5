package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(setupCategoriesTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateCategoryValidatesName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "   "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCreateAndUpdateCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "  دهانات داخلية ", SortOrder: 3, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "دهانات داخلية", created.Name)
	assert.Equal(t, 3, created.SortOrder)

	sortOrder := 7
	active := false
	updated, err := svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{SortOrder: &sortOrder, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.SortOrder)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "دهانات داخلية", updated.Name)
}

func TestServiceDeleteCategoryRefusedWhileProductsRemain(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "داخلية", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, repo.db.Create(&models.Product{
		CategoryID: created.ID,
		Name:       "دهان",
		PriceCents: 4500,
		Images:     []string{},
	}).Error)

	err = svc.DeleteCategory(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestServiceDeleteEmptyCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "فارغة", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	_, err = svc.GetCategory(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
