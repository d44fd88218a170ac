package models

import (
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/trade/models/enum"
)

// Quote is one negotiation thread between one buyer and one supplier over a
// bundle of line items. Status and the pending-offer fields are mutated only
// through the negotiation service; an open counter-offer is encoded as
// status PENDING plus non-nil pending fields, never as a separate status.
type Quote struct {
	ID          uint64           `json:"id"`
	QuoteNumber string           `json:"quote_number"`
	BuyerID     uint64           `json:"buyer_id"`
	SupplierID  uint64           `json:"supplier_id"`
	Status      enum.QuoteStatus `json:"status"`

	// Principal fields, authoritative once accepted.
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentTerms  string          `json:"payment_terms"`
	DeliveryTerms string          `json:"delivery_terms"`

	// Pending-offer fields, meaningful only while an open counter-offer exists.
	PendingCounterOfferPrice *decimal.Decimal `json:"pending_counter_offer_price,omitempty"`
	PendingPaymentTerms      *string          `json:"pending_payment_terms,omitempty"`
	PendingDeliveryTerms     *string          `json:"pending_delivery_terms,omitempty"`
	LastCounterOfferBy       *enum.ActorType  `json:"last_counter_offer_by,omitempty"`
	CounterOfferCount        uint32           `json:"counter_offer_count"`

	ShippingQuoteID *uint64 `json:"shipping_quote_id,omitempty"`
	Notes           string  `json:"notes,omitempty"`

	Items []*QuoteItem `json:"items,omitempty"`

	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewQuote() *Quote {
	return &Quote{}
}

// Open reports whether the quote still accepts negotiation transitions.
func (q *Quote) Open() bool {
	return q.Status == enum.QuoteStatusPending
}

// HasPendingOffer reports whether an open counter-offer exists. A
// counter-offer may revise only the terms, so any pending field counts.
func (q *Quote) HasPendingOffer() bool {
	return q.Open() &&
		(q.PendingCounterOfferPrice != nil || q.PendingPaymentTerms != nil || q.PendingDeliveryTerms != nil)
}

// ClearPendingOffer nulls every pending-offer field. Called on acceptance,
// after any pending values have been promoted to the principal fields.
func (q *Quote) ClearPendingOffer() {
	q.PendingCounterOfferPrice = nil
	q.PendingPaymentTerms = nil
	q.PendingDeliveryTerms = nil
	q.LastCounterOfferBy = nil
}
