package freight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"goflare.io/trade/models/enum"
)

func TestRouteDistanceSymmetric(t *testing.T) {
	assert.Equal(t, int64(1200), RouteDistance("PACLP", "USMIA"))
	assert.Equal(t, int64(1200), RouteDistance("USMIA", "PACLP"))
}

func TestRouteDistanceUnknownPairUsesDefault(t *testing.T) {
	assert.Equal(t, int64(defaultDistanceNM), RouteDistance("XXAAA", "XXBBB"))
}

func TestContainerCostStandardScenario(t *testing.T) {
	// PACLP -> USMIA, 20GP, Standard, MSC: 1200 x 2.5 x 1.0 x 1.0 x 0.95.
	distance := RouteDistance("PACLP", "USMIA")
	cost := ContainerCost(distance, enum.ContainerType20GP, enum.ServiceTypeStandard, decimal.NewFromFloat(0.95))
	assert.True(t, cost.Equal(decimal.NewFromInt(2850)), "got %s", cost)
}

func TestTransitTimeStandardScenario(t *testing.T) {
	assert.Equal(t, uint32(3), TransitTimeDays(1200, enum.ServiceTypeStandard))
}

func TestTransitTimeServiceTiers(t *testing.T) {
	// 1200/500 = 2.4 base days before the tier factor.
	assert.Equal(t, uint32(2), TransitTimeDays(1200, enum.ServiceTypeExpress))
	assert.Equal(t, uint32(3), TransitTimeDays(1200, enum.ServiceTypeEconomy))
}

func TestMalformedEnumsPriceAsStandard(t *testing.T) {
	one := decimal.NewFromFloat(1.0)
	assert.True(t, ContainerMultiplier(enum.ContainerType("99XX")).Equal(one))
	assert.True(t, ServiceMultiplier(enum.ServiceType("TELEPORT")).Equal(one))
}

func TestContainerCostDeterministic(t *testing.T) {
	first := ContainerCost(5700, enum.ContainerType40HC, enum.ServiceTypeExpress, decimal.NewFromFloat(1.05))
	second := ContainerCost(5700, enum.ContainerType40HC, enum.ServiceTypeExpress, decimal.NewFromFloat(1.05))
	assert.True(t, first.Equal(second))
}
