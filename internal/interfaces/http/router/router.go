package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/procureflow/backend/internal/infrastructure/auth"
	"github.com/procureflow/backend/internal/infrastructure/config"
	"github.com/procureflow/backend/internal/infrastructure/logger"
	"github.com/procureflow/backend/internal/interfaces/http/handler"
	"github.com/procureflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine under the versioned API group
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Handlers bundles the procurement handlers for route registration
type Handlers struct {
	RFQ           *handler.RFQHandler
	Quotation     *handler.QuotationHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Invoice       *handler.InvoiceHandler
	Receipt       *handler.ReceiptHandler
}

// ProcurementRoutes registers the document lifecycle endpoints. Buyer-side
// operations live at the top level; supplier-side operations live under
// /supplier. Both sides sit behind JWT auth with an actor-class guard.
type ProcurementRoutes struct {
	handlers   Handlers
	jwtService *auth.JWTService
	log        *zap.Logger
}

// NewProcurementRoutes creates the procurement route registrar
func NewProcurementRoutes(handlers Handlers, jwtService *auth.JWTService, log *zap.Logger) *ProcurementRoutes {
	return &ProcurementRoutes{handlers: handlers, jwtService: jwtService, log: log}
}

// RegisterRoutes implements RouteRegistrar
func (p *ProcurementRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("")
	authed.Use(middleware.JWTAuth(p.jwtService, p.log))

	buyer := authed.Group("")
	buyer.Use(middleware.RequireBuyer())
	{
		rfqs := buyer.Group("/rfqs")
		rfqs.POST("", p.handlers.RFQ.Create)
		rfqs.GET("", p.handlers.RFQ.List)
		rfqs.GET("/:id", p.handlers.RFQ.Get)
		rfqs.POST("/:id/lines", p.handlers.RFQ.AddLine)
		rfqs.POST("/:id/suppliers", p.handlers.RFQ.InviteSupplier)
		rfqs.POST("/:id/send", p.handlers.RFQ.Send)
		rfqs.POST("/:id/close", p.handlers.RFQ.Close)
		rfqs.POST("/:id/cancel", p.handlers.RFQ.Cancel)
		rfqs.GET("/:id/quotations", p.handlers.Quotation.ListByRFQ)

		quotations := buyer.Group("/quotations")
		quotations.GET("", p.handlers.Quotation.List)
		quotations.GET("/:id", p.handlers.Quotation.Get)
		quotations.GET("/:id/file", p.handlers.Quotation.DownloadFile)
		quotations.POST("/:id/review", p.handlers.Quotation.StartReview)
		quotations.POST("/:id/accept", p.handlers.Quotation.Accept)
		quotations.POST("/:id/reject", p.handlers.Quotation.Reject)

		orders := buyer.Group("/purchase-orders")
		orders.POST("", p.handlers.PurchaseOrder.Create)
		orders.GET("", p.handlers.PurchaseOrder.List)
		orders.GET("/:id", p.handlers.PurchaseOrder.Get)
		orders.POST("/:id/send", p.handlers.PurchaseOrder.Send)
		orders.POST("/:id/receipts", p.handlers.PurchaseOrder.RecordReceipt)
		orders.POST("/:id/cancel", p.handlers.PurchaseOrder.Cancel)

		invoices := buyer.Group("/invoices")
		invoices.GET("", p.handlers.Invoice.List)
		invoices.GET("/overdue", p.handlers.Invoice.ListOverdue)
		invoices.GET("/:id", p.handlers.Invoice.Get)
		invoices.POST("/:id/approve", p.handlers.Invoice.Approve)
		invoices.POST("/:id/payments", p.handlers.Invoice.RecordPayment)
		invoices.POST("/:id/cancel", p.handlers.Invoice.Cancel)
		invoices.POST("/:id/receipt", p.handlers.Receipt.Generate)
		invoices.GET("/:id/receipt", p.handlers.Receipt.GetByInvoice)

		receipts := buyer.Group("/receipts")
		receipts.GET("", p.handlers.Receipt.List)
		receipts.GET("/:id", p.handlers.Receipt.Get)
	}

	supplier := authed.Group("/supplier")
	supplier.Use(middleware.RequireSupplier())
	{
		supplier.GET("/rfqs", p.handlers.RFQ.ListInviting)

		supplier.POST("/quotations", p.handlers.Quotation.SubmitManual)
		supplier.POST("/quotations/file", p.handlers.Quotation.SubmitFile)
		supplier.GET("/quotations", p.handlers.Quotation.ListOwn)

		supplier.GET("/purchase-orders", p.handlers.PurchaseOrder.ListOwn)
		supplier.POST("/purchase-orders/:id/confirm", p.handlers.PurchaseOrder.Confirm)

		supplier.POST("/invoices", p.handlers.Invoice.Create)
		supplier.POST("/invoices/from-quotation", p.handlers.Invoice.CreateFromQuotation)
		supplier.GET("/invoices", p.handlers.Invoice.ListOwn)
		supplier.POST("/invoices/:id/submit", p.handlers.Invoice.Submit)
		supplier.POST("/invoices/:id/cancel", p.handlers.Invoice.Cancel)
	}
}

// NewEngine builds the gin engine with the standard middleware chain
func NewEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP),
		middleware.SecureHeaders(),
		middleware.BodySizeLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.App.Name})
	})

	return engine
}
