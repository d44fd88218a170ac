package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"goflare.io/trade/handlers"
)

type Server struct {
	echo         *echo.Echo
	Quote        handlers.QuoteHandler
	Freight      handlers.FreightHandler
	Cart         handlers.CartHandler
	Product      handlers.ProductHandler
	PaymentOrder handlers.PaymentOrderHandler
}

func NewServer(
	Quote handlers.QuoteHandler,
	Freight handlers.FreightHandler,
	Cart handlers.CartHandler,
	Product handlers.ProductHandler,
	PaymentOrder handlers.PaymentOrderHandler,
) *Server {
	return &Server{
		echo:         echo.New(),
		Quote:        Quote,
		Freight:      Freight,
		Cart:         Cart,
		Product:      Product,
		PaymentOrder: PaymentOrder,
	}
}

// Start registers middlewares and routes and starts listening on the
// provided address.
func (s *Server) Start(address string) error {
	s.registerMiddlewares()
	s.registerRoutes()
	return s.echo.Start(address)
}

// Run starts the server in a goroutine, then waits for an interrupt or
// SIGTERM before shutting the server down with a five-second grace window.
func (s *Server) Run(address string) error {

	go func() {
		if err := s.Start(address); err != nil {
			s.echo.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
}

func (s *Server) registerRoutes() {

	s.echo.POST("/quotes", s.Quote.CreateQuote)
	s.echo.GET("/quotes", s.Quote.ListQuotes)
	s.echo.GET("/quotes/:id", s.Quote.GetQuote)
	s.echo.PUT("/quotes/:id/status", s.Quote.UpdateQuoteStatus)
	s.echo.GET("/quotes/:id/comments", s.Quote.ListQuoteComments)

	s.echo.POST("/freight/calculate", s.Freight.CalculateFreight)
	s.echo.GET("/shipping/quotes", s.Freight.ListShippingQuotes)

	s.echo.POST("/cart/items", s.Cart.AddCartItem)
	s.echo.GET("/cart", s.Cart.GetCart)

	s.echo.GET("/products", s.Product.ListProducts)
	s.echo.GET("/products/:id", s.Product.GetProduct)

	s.echo.POST("/payment/orders", s.PaymentOrder.CreatePaymentOrder)
	s.echo.GET("/payment/orders", s.PaymentOrder.ListPaymentOrders)
	s.echo.GET("/payment/orders/:id", s.PaymentOrder.GetPaymentOrder)
}
