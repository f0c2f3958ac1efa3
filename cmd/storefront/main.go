package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/api"
	"github.com/novamart/storefront/internal/checkout"
	"github.com/novamart/storefront/internal/config"
	"github.com/novamart/storefront/internal/orderapi"
	"github.com/novamart/storefront/internal/orders"
	"github.com/novamart/storefront/internal/payment"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	orderClient := orderapi.NewClient(cfg.OrderAPI, logger)
	paymentAdapter := payment.NewAdapter(cfg.Payment, payment.NewMockConfirmer(), logger)
	checkouts := checkout.NewManager(checkout.FlatTaxRate(0.08), logger)
	orderStores := orders.NewManager(orderClient, logger)

	router := api.NewRouter(cfg, checkouts, orderStores, orderClient, paymentAdapter, logger)

	logger.Info("Starting storefront service",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("order_api", cfg.OrderAPI.BaseURL),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
