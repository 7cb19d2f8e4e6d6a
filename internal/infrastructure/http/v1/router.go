// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"metpro/internal/domain/catalogs/client"
	"metpro/internal/domain/catalogs/product"
	"metpro/internal/domain/documents/invoice"
	"metpro/internal/domain/documents/quote"
	"metpro/internal/domain/reports"
	"metpro/internal/infrastructure/http/v1/handlers"
	"metpro/internal/infrastructure/http/v1/middleware"
	"metpro/internal/infrastructure/storage/postgres"
	"metpro/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Audit serves document change history
	Audit *postgres.AuditService

	ClientService  *client.Service
	ProductService *product.Service
	QuoteService   *quote.Service
	InvoiceService *invoice.Service
	ReportsService *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	clientHandler := handlers.NewClientHandler(base, cfg.ClientService)
	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	quoteHandler := handlers.NewQuoteHandler(base, cfg.QuoteService)
	invoiceHandler := handlers.NewInvoiceHandler(base, cfg.InvoiceService)
	reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)
	auditHandler := handlers.NewAuditHandler(base, cfg.Audit)

	api := router.Group("/api/v1")
	{
		clients := api.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.POST("", clientHandler.Create)
			clients.GET("/rnc/:rnc", clientHandler.GetByRNC)
			clients.GET("/:id", clientHandler.Get)
			clients.PUT("/:id", clientHandler.Update)
			clients.DELETE("/:id", clientHandler.Delete)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		quotes := api.Group("/quotes")
		{
			quotes.GET("", quoteHandler.List)
			quotes.POST("", quoteHandler.Create)
			quotes.GET("/number/:number", quoteHandler.GetByNumber)
			quotes.GET("/:id", quoteHandler.Get)
			quotes.PUT("/:id", quoteHandler.Update)
			quotes.DELETE("/:id", quoteHandler.Delete)
			quotes.POST("/:id/status", quoteHandler.UpdateStatus)
			quotes.POST("/:id/duplicate", quoteHandler.Duplicate)
			quotes.POST("/:id/convert", invoiceHandler.ConvertQuote)
			quotes.GET("/:id/history", auditHandler.History("quote"))
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/number/:number", invoiceHandler.GetByNumber)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.DELETE("/:id", invoiceHandler.Delete)
			invoices.POST("/:id/status", invoiceHandler.UpdateStatus)
			invoices.POST("/:id/payments", invoiceHandler.RecordPayment)
			invoices.GET("/:id/payments", invoiceHandler.GetPayments)
			invoices.GET("/:id/history", auditHandler.History("invoice"))
		}

		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("/billing-summary", reportsHandler.GetBillingSummary)
			reportsGroup.GET("/receivables", reportsHandler.GetReceivables)
		}
	}

	return router
}
