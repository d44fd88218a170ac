package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The quote pipeline reads it only to refresh
// title/supplier snapshots; the catalog remains the source of truth for
// browsing, not for issued quotes.
type Product struct {
	ID                uint64          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	SupplierID        uint64          `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name"`
	PricePerContainer decimal.Decimal `json:"price_per_container"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func NewProduct() *Product {
	return &Product{}
}
