package product

import (
	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the catalog endpoints.
type ListFilters struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Featured   *bool      `json:"featured,omitempty"`
	InStock    *bool      `json:"in_stock,omitempty"`
	Query      string     `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate the catalog.
type ListProductsInput struct {
	Filters    ListFilters
	Pagination pagination.Params
	// IncludeInactive is only honored for back-office callers; the public
	// storefront always sees active products.
	IncludeInactive bool
}
