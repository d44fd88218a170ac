package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"goflare.io/trade"
	"goflare.io/trade/models"
)

type CartHandler interface {
	AddCartItem(c echo.Context) error
	GetCart(c echo.Context) error
}

type cartHandler struct {
	Marketplace trade.Marketplace
	Logger      *zap.Logger
}

func NewCartHandler(marketplace trade.Marketplace, logger *zap.Logger) CartHandler {
	return &cartHandler{
		Marketplace: marketplace,
		Logger:      logger,
	}
}

// AddCartItem handles POST /cart/items
func (ch *cartHandler) AddCartItem(c echo.Context) error {
	var item models.CartItem
	if err := c.Bind(&item); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if item.BuyerID == 0 || item.ProductID == 0 || item.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "buyer_id, product_id and quantity are required"})
	}

	if err := ch.Marketplace.AddCartItem(c.Request().Context(), &item); err != nil {
		ch.Logger.Error("Failed to add cart item", zap.Error(err), zap.Uint64("buyer_id", item.BuyerID))
		return writeError(c, err, "Failed to add cart item")
	}

	return c.JSON(http.StatusCreated, item)
}

// GetCart handles GET /cart?buyer_id=
func (ch *cartHandler) GetCart(c echo.Context) error {
	buyerID, err := parseID(c.QueryParam("buyer_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid buyer_id"})
	}

	items, err := ch.Marketplace.GetCart(c.Request().Context(), buyerID)
	if err != nil {
		ch.Logger.Error("Failed to get cart", zap.Error(err), zap.Uint64("buyer_id", buyerID))
		return writeError(c, err, "Failed to get cart")
	}

	return c.JSON(http.StatusOK, items)
}
