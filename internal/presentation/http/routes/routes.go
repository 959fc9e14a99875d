package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/dairy-coop-api/internal/config"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/handler"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/middleware"
	"github.com/sangkips/dairy-coop-api/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Item     *handler.ItemHandler
	Category *handler.CategoryHandler
	Unit     *handler.UnitHandler
	Stock    *handler.StockHandler
	Sales    *handler.SalesHandler
	Supplier *handler.SupplierHandler
	Customer *handler.CustomerHandler
	Ledger   *handler.LedgerHandler
	Report   *handler.ReportHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *logrus.Logger
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	RateLimiter     *middleware.ClientRateLimiter
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	handler.RegisterValidation()
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerItemRoutes(v1, h)
		registerCategoryRoutes(v1, h)
		registerUnitRoutes(v1, h)
		registerStockRoutes(v1, h, deps)
		registerPurchaseRoutes(v1, h)
		registerSalesRoutes(v1, h, deps)
		registerSupplierRoutes(v1, h)
		registerCustomerRoutes(v1, h)
		registerLedgerRoutes(v1, h)
		registerReportRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerItemRoutes(v1 *gin.RouterGroup, h *Handlers) {
	items := v1.Group("/items")
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.GET("/next-code", h.Item.NextCode)
		items.GET("/:id", h.Item.Get)
		items.PUT("/:id", h.Item.Update)
		items.DELETE("/:id", h.Item.Delete)
		items.POST("/:id/rebuild-balance", h.Item.RebuildBalance)
	}
}

func registerCategoryRoutes(v1 *gin.RouterGroup, h *Handlers) {
	categories := v1.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerUnitRoutes(v1 *gin.RouterGroup, h *Handlers) {
	units := v1.Group("/units")
	{
		units.GET("", h.Unit.List)
		units.POST("", h.Unit.Create)
		units.GET("/:id", h.Unit.Get)
		units.PUT("/:id", h.Unit.Update)
		units.DELETE("/:id", h.Unit.Delete)
	}
}

func registerStockRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	stock := v1.Group("/stock")
	{
		stock.POST("/in", idempotencyRequired(deps), h.Stock.StockIn)
		stock.POST("/out", h.Stock.StockOut)
		stock.GET("/balance", h.Stock.Balance)
		stock.GET("/transactions", h.Stock.ListTransactions)
		stock.GET("/transactions/:id", h.Stock.GetTransaction)
		stock.PUT("/transactions/:id", h.Stock.UpdateTransaction)
		stock.DELETE("/transactions/:id", h.Stock.DeleteTransaction)
	}
}

func registerPurchaseRoutes(v1 *gin.RouterGroup, h *Handlers) {
	purchases := v1.Group("/purchases")
	{
		purchases.GET("", h.Stock.ListPurchases)
		purchases.GET("/:id", h.Stock.GetPurchase)
		purchases.DELETE("/:id", h.Stock.DeletePurchase)
	}
}

// idempotencyRequired guards routes that post stock or vouchers, where a retried request must not post twice
func idempotencyRequired(deps *Deps) gin.HandlerFunc {
	return middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	})
}

func registerSalesRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := idempotencyRequired(deps)

	sales := v1.Group("/sales")
	{
		sales.GET("", h.Sales.List)
		sales.POST("", idempotency, h.Sales.Create)
		sales.POST("/preview", h.Sales.Preview)
		sales.GET("/next-number", h.Sales.NextNumber)
		sales.GET("/:id", h.Sales.Get)
		sales.PUT("/:id", h.Sales.Update)
		sales.DELETE("/:id", h.Sales.Delete)
		sales.POST("/:id/payments", idempotency, h.Sales.RecordPayment)
	}
}

func registerSupplierRoutes(v1 *gin.RouterGroup, h *Handlers) {
	suppliers := v1.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/next-code", h.Supplier.NextCode)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/next-code", h.Customer.NextCode)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerLedgerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	ledgers := v1.Group("/ledgers")
	{
		ledgers.GET("", h.Ledger.List)
		ledgers.POST("", h.Ledger.Create)
		ledgers.GET("/:id", h.Ledger.Get)
	}

	vouchers := v1.Group("/vouchers")
	{
		vouchers.GET("", h.Ledger.ListVouchers)
		vouchers.POST("/journal", h.Ledger.PostJournal)
		vouchers.GET("/:id", h.Ledger.GetVoucher)
		vouchers.DELETE("/:id", h.Ledger.DeleteVoucher)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/stock-balance", h.Report.StockBalance)
		reports.GET("/trial-balance", h.Report.TrialBalance)
		reports.GET("/sales-summary", h.Report.SalesSummary)
		reports.GET("/stock-movements", h.Report.StockMovements)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printer := v1.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/sales/:id", h.Printer.PrintSale)
		printer.POST("/purchases/:id", h.Printer.PrintPurchase)
	}
}
