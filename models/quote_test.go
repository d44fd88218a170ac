package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"goflare.io/trade/models/enum"
)

func TestQuoteOpen(t *testing.T) {
	q := &Quote{Status: enum.QuoteStatusPending}
	assert.True(t, q.Open())

	q.Status = enum.QuoteStatusAccepted
	assert.False(t, q.Open())

	q.Status = enum.QuoteStatusRejected
	assert.False(t, q.Open())
}

func TestQuoteHasPendingOffer(t *testing.T) {
	q := &Quote{Status: enum.QuoteStatusPending}
	assert.False(t, q.HasPendingOffer())

	price := decimal.NewFromInt(9000)
	q.PendingCounterOfferPrice = &price
	assert.True(t, q.HasPendingOffer())

	// A terms-only counter-offer also counts.
	q.PendingCounterOfferPrice = nil
	terms := "NET60"
	q.PendingPaymentTerms = &terms
	assert.True(t, q.HasPendingOffer())

	// Terminal quotes have no open offer regardless of leftover fields.
	q.Status = enum.QuoteStatusRejected
	assert.False(t, q.HasPendingOffer())
}

func TestClearPendingOffer(t *testing.T) {
	price := decimal.NewFromInt(9000)
	terms := "NET60"
	actor := enum.ActorTypeBuyer
	q := &Quote{
		Status:                   enum.QuoteStatusPending,
		PendingCounterOfferPrice: &price,
		PendingPaymentTerms:      &terms,
		PendingDeliveryTerms:     &terms,
		LastCounterOfferBy:       &actor,
		CounterOfferCount:        3,
	}

	q.ClearPendingOffer()

	assert.Nil(t, q.PendingCounterOfferPrice)
	assert.Nil(t, q.PendingPaymentTerms)
	assert.Nil(t, q.PendingDeliveryTerms)
	assert.Nil(t, q.LastCounterOfferBy)
	// The negotiation history survives clearing.
	assert.Equal(t, uint32(3), q.CounterOfferCount)
}

func TestActorCounterparty(t *testing.T) {
	assert.Equal(t, enum.ActorTypeSupplier, enum.ActorTypeBuyer.Counterparty())
	assert.Equal(t, enum.ActorTypeBuyer, enum.ActorTypeSupplier.Counterparty())
}
