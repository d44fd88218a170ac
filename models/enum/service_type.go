package enum

// ServiceType is a carrier service tier.
type ServiceType string

const (
	ServiceTypeExpress  ServiceType = "EXPRESS"
	ServiceTypePremium  ServiceType = "PREMIUM"
	ServiceTypeStandard ServiceType = "STANDARD"
	ServiceTypeEconomy  ServiceType = "ECONOMY"
)
