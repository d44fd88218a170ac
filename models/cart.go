package models

import (
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/trade/models/enum"
)

// CartItem carries its own product title, supplier name and price so a quote
// can still be created from it after the catalog entry changes or disappears.
type CartItem struct {
	ID            uint64             `json:"id"`
	BuyerID       uint64             `json:"buyer_id"`
	ProductID     uint64             `json:"product_id"`
	ProductTitle  string             `json:"product_title"`
	SupplierID    uint64             `json:"supplier_id"`
	SupplierName  string             `json:"supplier_name"`
	Quantity      uint32             `json:"quantity"`
	UnitPrice     decimal.Decimal    `json:"unit_price"`
	ContainerType enum.ContainerType `json:"container_type"`
	Incoterm      enum.Incoterm      `json:"incoterm"`
	CreatedAt     time.Time          `json:"created_at"`
}
