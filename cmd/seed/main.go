package main

import (
	"context"
	"flag"
	"fmt"

	"bank-ledger-go/internal/common"
	"bank-ledger-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	fixtureFlag := flag.String("fixture", "", "Path to a YAML demo fixture (default: DEMO_FIXTURE_FILE or the built-in fixture)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if *fixtureFlag != "" {
		cfg.Ledger.DemoFixtureFile = *fixtureFlag
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	zap.L().Info("Replacing all data with demo fixture", zap.String("backend", services.Store.Name()))

	stats, err := services.Engine.SeedDemoData(ctx)
	if err != nil {
		zap.L().Fatal("Failed to seed demo data", zap.Error(err))
	}

	common.PrintHeader("DEMO DATA LOADED", common.DefaultWidth)
	fmt.Printf("Backend:       %s\n", services.Store.Name())
	fmt.Printf("Customers:     %d\n", stats.Customers)
	fmt.Printf("Accounts:      %d\n", stats.Accounts)
	fmt.Printf("Transactions:  %d\n", stats.Transactions)
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("Seed complete",
		zap.Int("customers", stats.Customers),
		zap.Int("accounts", stats.Accounts),
		zap.Int("transactions", stats.Transactions))
}
