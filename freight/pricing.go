package freight

import (
	"github.com/shopspring/decimal"

	"goflare.io/trade/models/enum"
)

const (
	// Cost model constants. Distances are nautical miles.
	baseRatePerMile     = "2.5"
	averageDailySpeedNM = 500
	defaultDistanceNM   = 5000
	preparationLeadDays = 5
	quoteValidityDays   = 15
	defaultCurrency     = "USD"
)

// routeDistances holds known port-pair distances keyed origin|destination.
// Lookups are symmetric; both orderings resolve to the same value.
var routeDistances = map[[2]string]int64{
	{"PACLP", "USMIA"}: 1200,
	{"PACLP", "USNYC"}: 1980,
	{"USMIA", "USNYC"}: 1090,
	{"CNSHA", "USLAX"}: 5700,
	{"CNSHA", "NLRTM"}: 10525,
	{"CNSHA", "SGSIN"}: 2190,
	{"CNNGB", "USLAX"}: 5650,
	{"SGSIN", "NLRTM"}: 8290,
	{"SGSIN", "AEJEA"}: 3160,
	{"NLRTM", "USNYC"}: 3420,
	{"NLRTM", "DEHAM"}: 310,
	{"DEHAM", "USNYC"}: 3680,
	{"BRSSZ", "NLRTM"}: 5250,
	{"BRSSZ", "USMIA"}: 3710,
	{"KRPUS", "USLAX"}: 5230,
	{"JPTYO", "USLAX"}: 4840,
	{"INNSA", "SGSIN"}: 2080,
}

var containerMultipliers = map[enum.ContainerType]decimal.Decimal{
	enum.ContainerType20GP: decimal.NewFromFloat(1.0),
	enum.ContainerType40GP: decimal.NewFromFloat(1.25),
	enum.ContainerType40HC: decimal.NewFromFloat(1.35),
	enum.ContainerType45HC: decimal.NewFromFloat(1.5),
}

var serviceMultipliers = map[enum.ServiceType]decimal.Decimal{
	enum.ServiceTypeExpress:  decimal.NewFromFloat(1.5),
	enum.ServiceTypePremium:  decimal.NewFromFloat(1.25),
	enum.ServiceTypeStandard: decimal.NewFromFloat(1.0),
	enum.ServiceTypeEconomy:  decimal.NewFromFloat(0.8),
}

// transitFactors scale the distance-derived transit estimate per tier.
var transitFactors = map[enum.ServiceType]decimal.Decimal{
	enum.ServiceTypeExpress:  decimal.NewFromFloat(0.75),
	enum.ServiceTypePremium:  decimal.NewFromFloat(1.0),
	enum.ServiceTypeStandard: decimal.NewFromFloat(1.0),
	enum.ServiceTypeEconomy:  decimal.NewFromFloat(1.25),
}

// CarrierProfile is one carrier's pricing adjustment and offered tiers. The
// factor reflects brand/reliability premium, not a physical cost driver.
type CarrierProfile struct {
	Name     string
	Factor   decimal.Decimal
	Services []enum.ServiceType
}

var carrierProfiles = []CarrierProfile{
	{Name: "MSC", Factor: decimal.NewFromFloat(0.95), Services: []enum.ServiceType{enum.ServiceTypeStandard, enum.ServiceTypeEconomy, enum.ServiceTypeExpress}},
	{Name: "Maersk", Factor: decimal.NewFromFloat(1.05), Services: []enum.ServiceType{enum.ServiceTypeStandard, enum.ServiceTypePremium, enum.ServiceTypeExpress}},
	{Name: "CMA CGM", Factor: decimal.NewFromFloat(1.0), Services: []enum.ServiceType{enum.ServiceTypeStandard, enum.ServiceTypePremium, enum.ServiceTypeEconomy}},
	{Name: "COSCO", Factor: decimal.NewFromFloat(0.9), Services: []enum.ServiceType{enum.ServiceTypeStandard, enum.ServiceTypeEconomy}},
	{Name: "Hapag-Lloyd", Factor: decimal.NewFromFloat(1.08), Services: []enum.ServiceType{enum.ServiceTypeStandard, enum.ServiceTypePremium, enum.ServiceTypeExpress}},
	{Name: "Evergreen", Factor: decimal.NewFromFloat(0.92), Services: []enum.ServiceType{enum.ServiceTypeStandard, enum.ServiceTypeEconomy}},
}

// RouteDistance resolves the nautical-mile distance for a port pair.
// Unknown pairs fall back to a fixed default so pricing stays total.
func RouteDistance(origin, destination string) int64 {
	if d, ok := routeDistances[[2]string{origin, destination}]; ok {
		return d
	}
	if d, ok := routeDistances[[2]string{destination, origin}]; ok {
		return d
	}
	return defaultDistanceNM
}

// ContainerMultiplier returns the cost multiplier for a container class.
// Unrecognized classes price as standard 20-foot.
func ContainerMultiplier(ct enum.ContainerType) decimal.Decimal {
	if m, ok := containerMultipliers[ct]; ok {
		return m
	}
	return decimal.NewFromFloat(1.0)
}

// ServiceMultiplier returns the cost multiplier for a service tier.
// Unrecognized tiers price as standard.
func ServiceMultiplier(st enum.ServiceType) decimal.Decimal {
	if m, ok := serviceMultipliers[st]; ok {
		return m
	}
	return decimal.NewFromFloat(1.0)
}

func transitFactor(st enum.ServiceType) decimal.Decimal {
	if f, ok := transitFactors[st]; ok {
		return f
	}
	return decimal.NewFromFloat(1.0)
}

// Carriers returns the carrier table the engine enumerates.
func Carriers() []CarrierProfile {
	return carrierProfiles
}

// ContainerCost prices one container over the given distance:
// distance x per-mile rate, scaled by container class, service tier and
// carrier factor.
func ContainerCost(distanceNM int64, ct enum.ContainerType, st enum.ServiceType, carrierFactor decimal.Decimal) decimal.Decimal {
	rate := decimal.RequireFromString(baseRatePerMile)
	return decimal.NewFromInt(distanceNM).
		Mul(rate).
		Mul(ContainerMultiplier(ct)).
		Mul(ServiceMultiplier(st)).
		Mul(carrierFactor)
}

// TransitTimeDays estimates door-to-door ocean transit:
// ceil(distance / daily speed), scaled by the tier's transit factor.
func TransitTimeDays(distanceNM int64, st enum.ServiceType) uint32 {
	days := decimal.NewFromInt(distanceNM).
		Div(decimal.NewFromInt(averageDailySpeedNM)).
		Mul(transitFactor(st)).
		Ceil()
	return uint32(days.IntPart())
}
