package models

import (
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/trade/models/enum"
)

// QuoteItem is an immutable snapshot of one cart line at quote-creation time.
// Product title and supplier name are frozen copies, deliberately allowed to
// drift from the live catalog.
type QuoteItem struct {
	ID            uint64             `json:"id"`
	QuoteID       uint64             `json:"quote_id"`
	ProductID     uint64             `json:"product_id"`
	ProductTitle  string             `json:"product_title"`
	SupplierName  string             `json:"supplier_name"`
	Quantity      uint32             `json:"quantity"`
	UnitPrice     decimal.Decimal    `json:"unit_price"`
	LinePrice     decimal.Decimal    `json:"line_price"`
	ContainerType enum.ContainerType `json:"container_type"`
	Incoterm      enum.Incoterm      `json:"incoterm"`
	CreatedAt     time.Time          `json:"created_at"`
}
