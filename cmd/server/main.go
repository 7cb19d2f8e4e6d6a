// Package main is the entry point for the metpro API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metpro/internal/domain/catalogs/client"
	"metpro/internal/domain/catalogs/product"
	"metpro/internal/domain/documents/invoice"
	"metpro/internal/domain/documents/quote"
	"metpro/internal/domain/reports"
	v1 "metpro/internal/infrastructure/http/v1"
	"metpro/internal/infrastructure/storage/postgres"
	"metpro/internal/infrastructure/storage/postgres/catalog_repo"
	"metpro/internal/infrastructure/storage/postgres/document_repo"
	"metpro/internal/infrastructure/storage/postgres/report_repo"
	"metpro/pkg/logger"
	"metpro/pkg/numerator"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting metpro server")

	// --- Database connection ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 25); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numerator Service ---
	// Goes through the tx-aware querier so numbers allocated inside a
	// rolled-back conversion are not burned silently.
	numeratorService := numerator.New(postgres.NewTxQuerier(txManager))

	// --- Audit Service ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	clientRepo := catalog_repo.NewClientRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	quoteRepo := document_repo.NewQuoteRepo(txManager)
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Services ---
	clientService := client.NewService(clientRepo, txManager)
	productService := product.NewService(productRepo, txManager)
	quoteService := quote.NewService(quoteRepo, clientService, numeratorService, txManager, auditService)
	invoiceService := invoice.NewService(invoiceRepo, quoteRepo, productService, numeratorService, txManager, auditService)
	reportsService := reports.NewService(reportRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		Audit:          auditService,
		ClientService:  clientService,
		ProductService: productService,
		QuoteService:   quoteService,
		InvoiceService: invoiceService,
		ReportsService: reportsService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
