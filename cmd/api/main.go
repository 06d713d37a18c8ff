package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	cartrepo "storefront/internal/repository/cart"
	customerrepo "storefront/internal/repository/customer"
	discountrepo "storefront/internal/repository/discount"
	orderrepo "storefront/internal/repository/order"
	paymentrepo "storefront/internal/repository/payment"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
	discountsvc "storefront/internal/service/discount"
	ordersvc "storefront/internal/service/order"
	paymentsvc "storefront/internal/service/payment"
	productsvc "storefront/internal/service/product"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}
	base, err := logging.New(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}
	logger := base.WithField("app", "api")
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var publisher events.Publisher = events.Nop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafka, err := events.NewKafka(brokers, logger)
		if err != nil {
			logger.Fatalf("connect to kafka: %v", err)
		}
		publisher = kafka
		logger.WithField("brokers", brokers).Info("publishing events to kafka")
	}
	defer publisher.Close()

	m := metrics.New()
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTokenTTL)

	productRepo := productrepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	paymentRepo := paymentrepo.NewPostgres(dbpool, logger)
	discountRepo := discountrepo.NewPostgres(dbpool, logger)

	customerService := customersvc.New(customersvc.Deps{
		Customers:  customerRepo,
		Orders:     orderRepo,
		Products:   productRepo,
		Tokens:     tokenrepo.NewPostgres(dbpool),
		Access:     tokens,
		RefreshTTL: cfg.RefreshTokenTTL,
		Logger:     logger,
	})
	cartService := cartsvc.New(cartsvc.Deps{
		Carts:     cartRepo,
		Discounts: discountRepo,
		Orders:    orderRepo,
		Events:    publisher,
		Metrics:   m,
		Logger:    logger,
	})
	paymentService := paymentsvc.New(paymentsvc.Deps{
		Payments: paymentRepo,
		Orders:   orderRepo,
		Events:   publisher,
		Metrics:  m,
		Logger:   logger,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Customers:      customerService,
		Carts:          cartService,
		Discounts:      discountsvc.New(discountRepo, logger),
		Orders:         ordersvc.New(orderRepo, logger),
		Payments:       paymentService,
		Products:       productsvc.New(productRepo, logger),
		Tokens:         tokens,
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins(),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}
