package router

import (
	"net/http"

	"github.com/fieldsale/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the resource handlers wired into the router
type Handlers struct {
	Product    *handler.ProductHandler
	Batch      *handler.BatchHandler
	Settlement *handler.SettlementHandler
	Invoice    *handler.InvoiceHandler
	Return     *handler.ReturnHandler
	Report     *handler.ReportHandler
}

// Router manages HTTP route registration
type Router struct {
	engine   *gin.Engine
	handlers Handlers
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, handlers Handlers) *Router {
	return &Router{
		engine:   engine,
		handlers: handlers,
	}
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")

	products := api.Group("/products")
	{
		products.POST("", r.handlers.Product.Create)
		products.GET("", r.handlers.Product.List)
		products.GET("/:id", r.handlers.Product.Get)
	}

	batches := api.Group("/batches")
	{
		batches.POST("", r.handlers.Batch.Receive)
		batches.GET("", r.handlers.Batch.Search)
		batches.GET("/:id", r.handlers.Batch.Get)
		batches.POST("/:id/quality-check", r.handlers.Batch.QualityCheck)
		batches.POST("/:id/recall", r.handlers.Batch.Recall)
		batches.GET("/:id/traceability", r.handlers.Report.BatchTraceability)
	}

	deliveries := api.Group("/deliveries")
	{
		deliveries.POST("", r.handlers.Settlement.CreateDelivery)
		deliveries.GET("/:id/settlement", r.handlers.Settlement.GetSettlementData)
		deliveries.POST("/:id/settle", r.handlers.Settlement.Settle)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", r.handlers.Invoice.Create)
		invoices.GET("/:id", r.handlers.Invoice.Get)
	}

	returns := api.Group("/returns")
	{
		returns.POST("/calculate", r.handlers.Return.Calculate)
		returns.POST("/:id/approve", r.handlers.Return.Approve)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/returns-by-reason", r.handlers.Report.ReturnsByReason)
		reports.GET("/batch-analysis", r.handlers.Report.BatchAnalysis)
		reports.GET("/daily-trend", r.handlers.Report.DailyTrend)
	}
}
