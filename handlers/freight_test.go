package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/trade/models"
)

func TestCalculateFreightValidation(t *testing.T) {
	m := newTestMarketplace(t)
	defer m.Close()
	h := NewFreightHandler(m, zap.NewNop())
	e := echo.New()

	tests := []struct {
		name string
		body string
	}{
		{"missing ports", `{"container_type":"20GP","container_quantity":1,"estimated_date":"2099-10-01T00:00:00Z"}`},
		{"zero quantity", `{"origin":"PACLP","destination":"USMIA","container_type":"20GP","container_quantity":0,"estimated_date":"2099-10-01T00:00:00Z"}`},
		{"past date", `{"origin":"PACLP","destination":"USMIA","container_type":"20GP","container_quantity":1,"estimated_date":"2020-01-01T00:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, h.CalculateFreight, http.MethodPost, "/freight/calculate", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCalculateFreightReturnsBestWithBreakdown(t *testing.T) {
	m := newTestMarketplace(t)
	defer m.Close()
	h := NewFreightHandler(m, zap.NewNop())
	e := echo.New()

	rec := doJSON(t, e, h.CalculateFreight, http.MethodPost, "/freight/calculate",
		`{"origin":"PACLP","destination":"USMIA","container_type":"20GP","container_quantity":1,"incoterm":"FOB","estimated_date":"2099-10-01T00:00:00Z"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Quote     models.ShippingQuote `json:"quote"`
		Breakdown struct {
			DistanceNM          int64           `json:"distance_nm"`
			ContainerMultiplier decimal.Decimal `json:"container_multiplier"`
			ServiceMultiplier   decimal.Decimal `json:"service_multiplier"`
			TransitTimeDays     uint32          `json:"transit_time_days"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// COSCO Economy is the cheapest combination for this route.
	assert.Equal(t, "COSCO", resp.Quote.Carrier)
	assert.True(t, resp.Quote.Cost.Equal(decimal.NewFromInt(2160)),
		"expected 2160, got %s", resp.Quote.Cost)
	assert.Equal(t, "USD", resp.Quote.Currency)
	assert.Equal(t, int64(1200), resp.Breakdown.DistanceNM)
	assert.True(t, resp.Breakdown.ContainerMultiplier.Equal(decimal.NewFromInt(1)))
}

func TestListShippingQuotesEnumeratesRoute(t *testing.T) {
	m := newTestMarketplace(t)
	defer m.Close()
	h := NewFreightHandler(m, zap.NewNop())
	e := echo.New()

	rec := doJSON(t, e, h.ListShippingQuotes, http.MethodGet,
		"/shipping/quotes?origin=PACLP&destination=USMIA&container_type=20GP", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var quotes []*models.ShippingQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quotes))
	assert.Len(t, quotes, 16)
}

func TestListShippingQuotesRequiresRoute(t *testing.T) {
	m := newTestMarketplace(t)
	defer m.Close()
	h := NewFreightHandler(m, zap.NewNop())
	e := echo.New()

	rec := doJSON(t, e, h.ListShippingQuotes, http.MethodGet, "/shipping/quotes?origin=PACLP", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
