package models

import (
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/trade/models/enum"
)

// ShippingQuote is one priced freight option for a route. Immutable after
// creation; a Quote holds a non-owning reference to at most one.
type ShippingQuote struct {
	ID                uint64             `json:"id"`
	OriginPort        string             `json:"origin_port"`
	DestinationPort   string             `json:"destination_port"`
	ContainerType     enum.ContainerType `json:"container_type"`
	ContainerQuantity uint32             `json:"container_quantity"`
	Carrier           string             `json:"carrier"`
	ServiceType       enum.ServiceType   `json:"service_type"`
	Incoterm          enum.Incoterm      `json:"incoterm"`
	Cost              decimal.Decimal    `json:"cost"`
	Currency          string             `json:"currency"`
	TransitTimeDays   uint32             `json:"transit_time_days"`
	DepartureDate     time.Time          `json:"departure_date"`
	ArrivalDate       time.Time          `json:"arrival_date"`
	ValidUntil        time.Time          `json:"valid_until"`
	CreatedAt         time.Time          `json:"created_at"`
}

func NewShippingQuote() *ShippingQuote {
	return &ShippingQuote{}
}
