package models

import (
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/trade/models/enum"
)

// QuoteComment is an append-only audit entry accompanying a negotiation
// transition. For counter-offers the offered price/terms are frozen here so
// the audit trail survives later mutation of the quote's pending fields.
type QuoteComment struct {
	ID       uint64             `json:"id"`
	QuoteID  uint64             `json:"quote_id"`
	UserID   uint64             `json:"user_id"`
	UserType enum.ActorType     `json:"user_type"`
	Action   enum.CommentAction `json:"action"`
	Comment  string             `json:"comment"`

	OfferedPrice         *decimal.Decimal `json:"offered_price,omitempty"`
	OfferedPaymentTerms  *string          `json:"offered_payment_terms,omitempty"`
	OfferedDeliveryTerms *string          `json:"offered_delivery_terms,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
