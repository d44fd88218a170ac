package models

import (
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/trade/models/enum"
)

// PaymentOrder is created from an accepted quote and carries the final
// negotiated price only. Gateway capture happens downstream.
type PaymentOrder struct {
	ID          uint64                  `json:"id"`
	OrderNumber string                  `json:"order_number"`
	QuoteID     uint64                  `json:"quote_id"`
	BuyerID     uint64                  `json:"buyer_id"`
	SupplierID  uint64                  `json:"supplier_id"`
	Amount      decimal.Decimal         `json:"amount"`
	Currency    string                  `json:"currency"`
	Status      enum.PaymentOrderStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}
