package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"goflare.io/trade"
)

type PaymentOrderHandler interface {
	CreatePaymentOrder(c echo.Context) error
	GetPaymentOrder(c echo.Context) error
	ListPaymentOrders(c echo.Context) error
}

type paymentOrderHandler struct {
	Marketplace trade.Marketplace
	Logger      *zap.Logger
}

func NewPaymentOrderHandler(marketplace trade.Marketplace, logger *zap.Logger) PaymentOrderHandler {
	return &paymentOrderHandler{
		Marketplace: marketplace,
		Logger:      logger,
	}
}

// CreatePaymentOrder handles POST /payment/orders
func (ph *paymentOrderHandler) CreatePaymentOrder(c echo.Context) error {
	var req struct {
		QuoteID uint64 `json:"quote_id"`
		BuyerID uint64 `json:"buyer_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.QuoteID == 0 || req.BuyerID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "quote_id and buyer_id are required"})
	}

	order, err := ph.Marketplace.CreatePaymentOrder(c.Request().Context(), req.QuoteID, req.BuyerID)
	if err != nil {
		ph.Logger.Error("Failed to create payment order",
			zap.Error(err), zap.Uint64("quote_id", req.QuoteID))
		return writeError(c, err, "Failed to create payment order")
	}

	return c.JSON(http.StatusCreated, order)
}

// ListPaymentOrders handles GET /payment/orders?buyer_id=
func (ph *paymentOrderHandler) ListPaymentOrders(c echo.Context) error {
	buyerID, err := parseID(c.QueryParam("buyer_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid buyer_id"})
	}
	limit, offset := parsePage(c)

	orders, err := ph.Marketplace.ListPaymentOrders(c.Request().Context(), buyerID, limit, offset)
	if err != nil {
		ph.Logger.Error("Failed to list payment orders", zap.Error(err), zap.Uint64("buyer_id", buyerID))
		return writeError(c, err, "Failed to list payment orders")
	}

	return c.JSON(http.StatusOK, orders)
}

// GetPaymentOrder handles GET /payment/orders/:id
func (ph *paymentOrderHandler) GetPaymentOrder(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order id"})
	}

	order, err := ph.Marketplace.GetPaymentOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err, "Failed to get payment order")
	}

	return c.JSON(http.StatusOK, order)
}
