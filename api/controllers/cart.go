package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/api/middleware"
	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/cart"
	"github.com/sipeslibya/storefront-backend/internal/products"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// cartPayload is the cart snapshot returned by every cart endpoint.
type cartPayload struct {
	Items      []cart.Line `json:"items"`
	TotalCents int         `json:"total_cents"`
	ItemCount  int         `json:"item_count"`
}

func snapshotCart(store *cart.Store) cartPayload {
	lines := store.Lines()
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return cartPayload{Items: lines, TotalCents: store.TotalCents(), ItemCount: count}
}

func cartStoreFromRequest(r *http.Request, carts *cart.Manager) (*cart.Store, error) {
	sessionID := middleware.CartSessionFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing cart session")
	}
	return carts.Get(sessionID), nil
}

// CartFetch returns the current cart for the session.
func CartFetch(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotCart(store))
	}
}

// CartAddItem puts a product into the cart. The line snapshot (name, unit
// price, image) is resolved server-side so a stale client cannot fix prices.
func CartAddItem(carts *cart.Manager, catalog product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			ProductID string `json:"product_id" validate:"required,uuid"`
			Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		dto, err := catalog.GetStorefrontProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if dto.Stock < body.Quantity {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock"))
			return
		}

		image := ""
		if len(dto.Images) > 0 {
			image = dto.Images[0]
		}
		store.AddItem(cart.Line{
			ProductID:      dto.ID,
			Name:           dto.Name,
			UnitPriceCents: dto.PriceCents,
			Quantity:       body.Quantity,
			Image:          image,
		})

		responses.WriteSuccess(w, snapshotCart(store))
	}
}

// CartUpdateItem sets the quantity of an existing line. Quantity zero removes
// the line.
func CartUpdateItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Quantity int `json:"quantity" validate:"min=0,max=99"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(productID, body.Quantity)
		responses.WriteSuccess(w, snapshotCart(store))
	}
}

// CartRemoveItem drops one line from the cart.
func CartRemoveItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.RemoveItem(productID)
		responses.WriteSuccess(w, snapshotCart(store))
	}
}

// CartClear empties the session cart.
func CartClear(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear()
		responses.WriteSuccess(w, snapshotCart(store))
	}
}
