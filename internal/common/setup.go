package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bank-ledger-go/internal/api"
	"bank-ledger-go/internal/database"
	"bank-ledger-go/internal/filestore"
	"bank-ledger-go/internal/formance"
	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/postgres"
	"bank-ledger-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine, variables can come from the shell or the container
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store  store.DocumentStore
	Engine *ledger.Engine
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeStore opens the document store selected by cfg.Store.Backend
func InitializeStore(ctx context.Context, cfg *models.Config) (store.DocumentStore, error) {
	zap.L().Info("Opening document store", zap.String("backend", cfg.Store.Backend))

	switch cfg.Store.Backend {
	case models.BackendMemory:
		return store.NewMemoryStore(), nil
	case models.BackendFile, "":
		return filestore.NewStore(cfg.Store)
	case models.BackendSQLite:
		return database.NewService(ctx, cfg.Database)
	case models.BackendPostgres:
		return postgres.NewService(ctx, cfg.Postgres)
	case models.BackendFormance:
		return formance.NewService(ctx, cfg.Formance)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	docs, err := InitializeStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var opts []ledger.Option
	if cfg.Ledger.DemoFixtureFile != "" {
		zap.L().Info("Loading demo fixture", zap.String("file", cfg.Ledger.DemoFixtureFile))
		fixture, err := ledger.LoadFixture(cfg.Ledger.DemoFixtureFile)
		if err != nil {
			docs.Close()
			return nil, err
		}
		opts = append(opts, ledger.WithFixture(fixture))
	}

	engine, err := ledger.NewEngine(docs, opts...)
	if err != nil {
		docs.Close()
		return nil, err
	}

	zap.L().Info("Ledger engine ready", zap.String("backend", docs.Name()))

	return &Services{
		Store:  docs,
		Engine: engine,
	}, nil
}

// NewHandler wires the HTTP surface, including the request log when enabled
func (cs *Services) NewHandler(cfg models.ServerConfig) (*api.Server, error) {
	requests, err := api.NewRequestLog(cfg.RequestLogSize, cfg.NodeId)
	if err != nil {
		return nil, err
	}
	return api.NewServer(cs.Engine, requests, cfg), nil
}

func (cs *Services) Close() {
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
