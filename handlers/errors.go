package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"goflare.io/trade/models"
)

// writeError maps domain sentinels onto HTTP statuses. Unrecognized errors
// report generically; detail stays in the server log.
func writeError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrQuoteNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrShippingQuoteNotFound),
		errors.Is(err, models.ErrPaymentOrderNotFound),
		errors.Is(err, models.ErrCartNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidStateTransition),
		errors.Is(err, models.ErrQuoteNotAccepted):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fallback})
	}
}
