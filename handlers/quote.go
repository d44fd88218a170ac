package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"goflare.io/trade"
	"goflare.io/trade/models/enum"
	"goflare.io/trade/quote"
)

type QuoteHandler interface {
	CreateQuote(c echo.Context) error
	GetQuote(c echo.Context) error
	ListQuotes(c echo.Context) error
	UpdateQuoteStatus(c echo.Context) error
	ListQuoteComments(c echo.Context) error
}

type quoteHandler struct {
	Marketplace trade.Marketplace
	Logger      *zap.Logger
}

func NewQuoteHandler(marketplace trade.Marketplace, logger *zap.Logger) QuoteHandler {
	return &quoteHandler{
		Marketplace: marketplace,
		Logger:      logger,
	}
}

// CreateQuote handles POST /quotes
func (qh *quoteHandler) CreateQuote(c echo.Context) error {
	var req trade.CreateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := validateCreateQuoteRequest(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := qh.Marketplace.CreateQuoteFromCart(c.Request().Context(), req)
	if err != nil {
		qh.Logger.Error("Failed to create quote", zap.Error(err), zap.Uint64("buyer_id", req.BuyerID))
		return writeError(c, err, "Failed to create quote")
	}

	return c.JSON(http.StatusCreated, result)
}

// GetQuote handles GET /quotes/:id
func (qh *quoteHandler) GetQuote(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid quote id"})
	}

	foundQuote, err := qh.Marketplace.GetQuote(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err, "Failed to get quote")
	}

	return c.JSON(http.StatusOK, foundQuote)
}

// ListQuotes handles GET /quotes?buyer_id= or GET /quotes?supplier_id=
func (qh *quoteHandler) ListQuotes(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := parsePage(c)

	if buyerParam := c.QueryParam("buyer_id"); buyerParam != "" {
		buyerID, err := parseID(buyerParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid buyer_id"})
		}
		quotes, err := qh.Marketplace.ListQuotesByBuyer(ctx, buyerID, limit, offset)
		if err != nil {
			qh.Logger.Error("Failed to list quotes", zap.Error(err), zap.Uint64("buyer_id", buyerID))
			return writeError(c, err, "Failed to list quotes")
		}
		return c.JSON(http.StatusOK, quotes)
	}

	if supplierParam := c.QueryParam("supplier_id"); supplierParam != "" {
		supplierID, err := parseID(supplierParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid supplier_id"})
		}
		quotes, err := qh.Marketplace.ListQuotesBySupplier(ctx, supplierID, limit, offset)
		if err != nil {
			qh.Logger.Error("Failed to list quotes", zap.Error(err), zap.Uint64("supplier_id", supplierID))
			return writeError(c, err, "Failed to list quotes")
		}
		return c.JSON(http.StatusOK, quotes)
	}

	return c.JSON(http.StatusBadRequest, map[string]string{"error": "buyer_id or supplier_id is required"})
}

// UpdateQuoteStatus handles PUT /quotes/:id/status
func (qh *quoteHandler) UpdateQuoteStatus(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid quote id"})
	}

	var req struct {
		Status       enum.QuoteStatus    `json:"status"`
		ActorID      uint64              `json:"actor_id"`
		ActorType    enum.ActorType      `json:"actor_type"`
		Comment      string              `json:"comment,omitempty"`
		CounterOffer *quote.CounterOffer `json:"counter_offer,omitempty"`
	}
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if !req.ActorType.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "actor_type must be BUYER or SUPPLIER"})
	}

	ctx := c.Request().Context()
	var result *quote.TransitionResult

	switch req.Status {
	case enum.QuoteStatusPending:
		// A PENDING target with a counter-offer payload is a counter-offer
		// transition; the comment is required for the audit trail.
		if req.CounterOffer == nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "counter_offer is required for PENDING status"})
		}
		if req.Comment == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "comment is required for a counter-offer"})
		}
		result, err = qh.Marketplace.SendCounterOffer(ctx, id, req.ActorID, req.ActorType, req.Comment, *req.CounterOffer)
	case enum.QuoteStatusAccepted:
		result, err = qh.Marketplace.AcceptQuote(ctx, id, req.ActorID, req.ActorType, req.Comment)
	case enum.QuoteStatusRejected:
		result, err = qh.Marketplace.RejectQuote(ctx, id, req.ActorID, req.ActorType, req.Comment)
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "status must be PENDING, ACCEPTED or REJECTED"})
	}

	if err != nil {
		qh.Logger.Error("Failed to update quote status",
			zap.Error(err), zap.Uint64("quote_id", id), zap.String("status", string(req.Status)))
		return writeError(c, err, "Failed to update quote status")
	}

	return c.JSON(http.StatusOK, result)
}

// ListQuoteComments handles GET /quotes/:id/comments
func (qh *quoteHandler) ListQuoteComments(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid quote id"})
	}

	comments, err := qh.Marketplace.ListQuoteComments(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err, "Failed to list quote comments")
	}

	return c.JSON(http.StatusOK, comments)
}

func validateCreateQuoteRequest(req trade.CreateQuoteRequest) error {
	if req.BuyerID == 0 {
		return errors.New("buyer_id is required")
	}
	for _, item := range req.Items {
		if item.ProductID == 0 {
			return errors.New("every item requires a product_id")
		}
		if item.Quantity == 0 {
			return errors.New("every item requires a positive quantity")
		}
		if item.Incoterm != "" && !item.Incoterm.Valid() {
			return errors.New("invalid incoterm value")
		}
	}
	if req.Freight != nil {
		if req.Freight.OriginPort == "" || req.Freight.DestinationPort == "" {
			return errors.New("freight selection requires origin and destination ports")
		}
	}
	return nil
}

func parseID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

func parsePage(c echo.Context) (limit, offset uint64) {
	limit = 50
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}
