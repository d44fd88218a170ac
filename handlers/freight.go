package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goflare.io/trade"
	"goflare.io/trade/freight"
	"goflare.io/trade/models/enum"
)

type FreightHandler interface {
	CalculateFreight(c echo.Context) error
	ListShippingQuotes(c echo.Context) error
}

type freightHandler struct {
	Marketplace trade.Marketplace
	Logger      *zap.Logger
}

func NewFreightHandler(marketplace trade.Marketplace, logger *zap.Logger) FreightHandler {
	return &freightHandler{
		Marketplace: marketplace,
		Logger:      logger,
	}
}

type freightCalculateRequest struct {
	Origin            string             `json:"origin"`
	Destination       string             `json:"destination"`
	ContainerType     enum.ContainerType `json:"container_type"`
	ContainerQuantity uint32             `json:"container_quantity"`
	Incoterm          enum.Incoterm      `json:"incoterm"`
	EstimatedDate     time.Time          `json:"estimated_date"`
}

// freightBreakdown exposes the cost drivers behind a selected quote.
type freightBreakdown struct {
	DistanceNM          int64           `json:"distance_nm"`
	ContainerMultiplier decimal.Decimal `json:"container_multiplier"`
	ServiceMultiplier   decimal.Decimal `json:"service_multiplier"`
	TransitTimeDays     uint32          `json:"transit_time_days"`
}

// CalculateFreight handles POST /freight/calculate
func (fh *freightHandler) CalculateFreight(c echo.Context) error {
	var req freightCalculateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := validateFreightRequest(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	best, err := fh.Marketplace.CalculateFreight(c.Request().Context(), freight.Request{
		OriginPort:        req.Origin,
		DestinationPort:   req.Destination,
		ContainerType:     req.ContainerType,
		ContainerQuantity: req.ContainerQuantity,
		EstimatedDate:     req.EstimatedDate,
		Incoterm:          req.Incoterm,
	})
	if err != nil {
		fh.Logger.Error("Failed to calculate freight", zap.Error(err),
			zap.String("origin", req.Origin), zap.String("destination", req.Destination))
		return writeError(c, err, "Failed to calculate freight")
	}

	distance := freight.RouteDistance(best.OriginPort, best.DestinationPort)
	return c.JSON(http.StatusOK, map[string]any{
		"quote": best,
		"breakdown": freightBreakdown{
			DistanceNM:          distance,
			ContainerMultiplier: freight.ContainerMultiplier(best.ContainerType),
			ServiceMultiplier:   freight.ServiceMultiplier(best.ServiceType),
			TransitTimeDays:     best.TransitTimeDays,
		},
	})
}

// ListShippingQuotes handles GET /shipping/quotes — the full unranked
// carrier x service set for a route.
func (fh *freightHandler) ListShippingQuotes(c echo.Context) error {
	req := freightCalculateRequest{
		Origin:            c.QueryParam("origin"),
		Destination:       c.QueryParam("destination"),
		ContainerType:     enum.ContainerType(c.QueryParam("container_type")),
		ContainerQuantity: 1,
		Incoterm:          enum.Incoterm(c.QueryParam("incoterm")),
	}
	if raw := c.QueryParam("container_quantity"); raw != "" {
		if parsed, err := parseID(raw); err == nil && parsed > 0 {
			req.ContainerQuantity = uint32(parsed)
		}
	}
	if raw := c.QueryParam("estimated_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "estimated_date must be RFC3339"})
		}
		req.EstimatedDate = parsed
	} else {
		req.EstimatedDate = time.Now()
	}

	if req.Origin == "" || req.Destination == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "origin and destination are required"})
	}

	quotes, err := fh.Marketplace.ListFreightOptions(c.Request().Context(), freight.Request{
		OriginPort:        req.Origin,
		DestinationPort:   req.Destination,
		ContainerType:     req.ContainerType,
		ContainerQuantity: req.ContainerQuantity,
		EstimatedDate:     req.EstimatedDate,
		Incoterm:          req.Incoterm,
	})
	if err != nil {
		fh.Logger.Error("Failed to enumerate shipping quotes", zap.Error(err),
			zap.String("origin", req.Origin), zap.String("destination", req.Destination))
		return writeError(c, err, "Failed to enumerate shipping quotes")
	}

	return c.JSON(http.StatusOK, quotes)
}

func validateFreightRequest(req freightCalculateRequest) error {
	if req.Origin == "" || req.Destination == "" {
		return errors.New("origin and destination are required")
	}
	if req.ContainerQuantity == 0 {
		return errors.New("container_quantity must be positive")
	}
	if !req.EstimatedDate.After(time.Now()) {
		return errors.New("estimated_date must be a future date")
	}
	return nil
}
