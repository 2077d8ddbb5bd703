package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	SKU  string `json:"sku" validate:"required"`
	Name string `json:"name" validate:"required"`
	Unit string `json:"unit"`
}

// ItemResponse un ítem del catálogo.
type ItemResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLocationRequest body para POST /api/locations.
// Capacity opcional: sin capacidad no se evalúa sobrecupo en esa ubicación.
type CreateLocationRequest struct {
	Code     string           `json:"code" validate:"required"`
	Zone     string           `json:"zone"`
	Capacity *decimal.Decimal `json:"capacity,omitempty"`
}

// LocationResponse una ubicación de almacenamiento.
type LocationResponse struct {
	ID        string           `json:"id"`
	Code      string           `json:"code"`
	Zone      string           `json:"zone"`
	Capacity  *decimal.Decimal `json:"capacity,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
