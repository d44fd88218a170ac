package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"goflare.io/trade"
)

type ProductHandler interface {
	GetProduct(c echo.Context) error
	ListProducts(c echo.Context) error
}

type productHandler struct {
	Marketplace trade.Marketplace
	Logger      *zap.Logger
}

func NewProductHandler(marketplace trade.Marketplace, logger *zap.Logger) ProductHandler {
	return &productHandler{
		Marketplace: marketplace,
		Logger:      logger,
	}
}

// GetProduct handles GET /products/:id
func (ph *productHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product id"})
	}

	foundProduct, err := ph.Marketplace.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err, "Failed to get product")
	}

	return c.JSON(http.StatusOK, foundProduct)
}

// ListProducts handles GET /products
func (ph *productHandler) ListProducts(c echo.Context) error {
	limit, offset := parsePage(c)

	products, err := ph.Marketplace.ListProducts(c.Request().Context(), limit, offset)
	if err != nil {
		ph.Logger.Error("Failed to list products", zap.Error(err))
		return writeError(c, err, "Failed to list products")
	}

	return c.JSON(http.StatusOK, products)
}
