package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
)

type fakeCategoryLoader struct {
	rows map[uuid.UUID]*models.Category
}

func (f *fakeCategoryLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if row, ok := f.rows[id]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestValidatePriceCents(t *testing.T) {
	if err := validatePriceCents(0); err == nil {
		t.Fatal("expected validation error for zero price")
	}
	if err := validatePriceCents(-100); err == nil {
		t.Fatal("expected validation error for negative price")
	}
	if err := validatePriceCents(4500); err != nil {
		t.Fatalf("expected no error for positive price, got %v", err)
	}
}

func TestValidateStock(t *testing.T) {
	if err := validateStock(-1); err == nil {
		t.Fatal("expected validation error for negative stock")
	}
	if err := validateStock(0); err != nil {
		t.Fatalf("expected no error for zero stock, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	if err := validateName("   "); err == nil {
		t.Fatal("expected validation error for blank name")
	}
	if typed := pkgerrors.As(validateName("")); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatal("expected validation error code")
	}
	if err := validateName("دهان داخلي"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestEnsureCategory(t *testing.T) {
	known := uuid.New()
	svc := &service{categoryRepo: &fakeCategoryLoader{
		rows: map[uuid.UUID]*models.Category{known: {ID: known, Name: "داخلي"}},
	}}

	t.Run("known category", func(t *testing.T) {
		if err := svc.ensureCategory(context.Background(), known); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		err := svc.ensureCategory(context.Background(), uuid.New())
		if err == nil {
			t.Fatal("expected error for unknown category")
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("nil category id", func(t *testing.T) {
		if err := svc.ensureCategory(context.Background(), uuid.Nil); err == nil {
			t.Fatal("expected error for nil category id")
		}
	})
}

func TestApplyUpdateToProductPatchesFields(t *testing.T) {
	categoryID := uuid.New()
	product := &models.Product{
		Name:       "old",
		PriceCents: 1000,
		Stock:      5,
		IsActive:   true,
		Images:     []string{"a.jpg"},
	}

	images := []string{"b.jpg", "c.jpg"}
	specs := models.ProductSpecifications{Color: stringPtr("أبيض")}
	input := UpdateProductInput{
		CategoryID:     &categoryID,
		Name:           stringPtr("  دهان جديد  "),
		PriceCents:     intPtr(2500),
		Stock:          intPtr(12),
		Images:         &images,
		Specifications: &specs,
		IsActive:       boolPtr(false),
	}

	applyUpdateToProduct(product, input)

	if product.Name != "دهان جديد" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.CategoryID != categoryID {
		t.Fatalf("expected category to change")
	}
	if product.PriceCents != 2500 || product.Stock != 12 {
		t.Fatalf("expected price/stock update, got %d/%d", product.PriceCents, product.Stock)
	}
	if len(product.Images) != 2 || product.Images[0] != "b.jpg" {
		t.Fatalf("expected replaced images, got %v", product.Images)
	}
	if product.Specifications.Color == nil || *product.Specifications.Color != "أبيض" {
		t.Fatalf("expected replaced specifications")
	}
	if product.IsActive {
		t.Fatal("expected product to be deactivated")
	}
}

func TestApplyUpdateToProductLeavesUnsetFields(t *testing.T) {
	product := &models.Product{Name: "unchanged", PriceCents: 1000, Stock: 3}

	applyUpdateToProduct(product, UpdateProductInput{Stock: intPtr(9)})

	if product.Name != "unchanged" || product.PriceCents != 1000 {
		t.Fatalf("unset fields must stay, got %q/%d", product.Name, product.PriceCents)
	}
	if product.Stock != 9 {
		t.Fatalf("expected stock 9, got %d", product.Stock)
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	if _, err := NewService(nil, &fakeCategoryLoader{}, 10); err == nil {
		t.Fatal("expected error for nil repository")
	}
	if _, err := NewService(NewRepository(nil), nil, 10); err == nil {
		t.Fatal("expected error for nil category repository")
	}
}

func stringPtr(value string) *string { return &value }
func intPtr(value int) *int          { return &value }
func boolPtr(value bool) *bool       { return &value }
