package router

import (
	"github.com/gin-gonic/gin"

	"vninvoice/internal/handler"
	"vninvoice/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	invoiceH *handler.InvoiceHandler,
	credentialH *handler.CredentialHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice routes
	invoices := v1.Group("/invoices")
	invoices.POST("/issue", invoiceH.Issue)
	invoices.POST("/replace", invoiceH.Replace)
	invoices.POST("/preview", invoiceH.Preview)
	invoices.POST("/cancel", invoiceH.Cancel)
	invoices.GET("", invoiceH.List)
	invoices.GET("/export", invoiceH.Export)
	invoices.GET("/remote", invoiceH.ListRemote)
	invoices.GET("/remote/:fkey", invoiceH.GetRemote)
	invoices.GET("/:code/document", invoiceH.DocumentURL)
	invoices.GET("/:code/document/content", invoiceH.DocumentContent)

	// Vendor credential refresh
	v1.POST("/credentials", credentialH.Refresh)

	return r
}
