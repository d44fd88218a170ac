//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"goflare.io/trade"
	"goflare.io/trade/cart"
	"goflare.io/trade/config"
	"goflare.io/trade/driver"
	"goflare.io/trade/freight"
	"goflare.io/trade/handlers"
	"goflare.io/trade/payment_order"
	"goflare.io/trade/product"
	"goflare.io/trade/quote"
	"goflare.io/trade/server"
)

func InitializeMarketplaceService() (*server.Server, error) {

	wire.Build(
		config.ProvideApplicationConfig,
		config.NewLogger,
		config.ProvidePostgresConn,
		config.ProvideEmber,
		config.ProvideIgnite,
		config.ProvideNATSConn,
		driver.NewTransactionManager,
		trade.NewEventManager,
		wire.Bind(new(quote.StatusNotifier), new(*trade.EventManager)),
		cart.NewRepository,
		cart.NewService,
		freight.NewRepository,
		freight.NewService,
		payment_order.NewRepository,
		payment_order.NewService,
		product.NewRepository,
		product.NewService,
		quote.NewRepository,
		quote.NewService,
		trade.NewMarketplace,
		handlers.NewQuoteHandler,
		handlers.NewFreightHandler,
		handlers.NewCartHandler,
		handlers.NewProductHandler,
		handlers.NewPaymentOrderHandler,
		server.NewServer,
	)

	return &server.Server{}, nil
}
