package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	customerrepo "storefront/internal/repository/customer"
	discountrepo "storefront/internal/repository/discount"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	base, err := logging.New(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}
	logger := base.WithField("app", "seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	stores := seed.Stores{
		Customers: customerrepo.NewPostgres(pool, logger),
		Products:  productrepo.NewPostgres(pool, logger),
		Discounts: discountrepo.NewPostgres(pool, logger),
	}
	if err := seed.Apply(ctx, stores, cfg.SeedStaffPassword, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Info("seed applied")
}
