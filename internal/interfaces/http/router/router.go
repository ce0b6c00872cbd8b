package router

import (
	"net/http"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/auth"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/config"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/logger"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/interfaces/http/handler"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Order          *handler.OrderHandler
	Coupon         *handler.CouponHandler
	Inventory      *handler.InventoryHandler
	Receipt        *handler.StockReceiptHandler
	Payment        *handler.PaymentHandler
	Reconciliation *handler.ReconciliationHandler
}

// Dependencies holds the cross-cutting pieces the router needs
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	HealthPing func() error
}

// New builds the gin engine with all middleware and routes wired
func New(deps Dependencies, h Handlers) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	engine.GET("/health", func(c *gin.Context) {
		if deps.HealthPing != nil {
			if err := deps.HealthPing(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	// Storefront endpoints
	api.POST("/orders", h.Order.Checkout)
	api.GET("/orders/:id", h.Order.Get)
	api.GET("/orders/number/:number", h.Order.GetByNumber)
	api.GET("/users/:id/orders", h.Order.ListByUser)
	api.POST("/coupons/validate", h.Coupon.Validate)

	// Gateway callbacks are authenticated by signature verification at the
	// edge, not by staff tokens.
	api.POST("/callbacks/payment", h.Payment.Callback)

	// Staff endpoints
	staff := api.Group("")
	staff.Use(middleware.JWTAuth(deps.JWTService, deps.Logger))
	{
		staff.GET("/orders", h.Order.List)
		staff.PUT("/orders/:id/status", h.Order.UpdateStatus)
		staff.GET("/orders/:id/payments", h.Payment.ListByOrder)
		staff.GET("/orders/:id/reconciliation", h.Reconciliation.ListByOrder)

		staff.POST("/coupons", h.Coupon.Create)
		staff.GET("/coupons", h.Coupon.List)
		staff.GET("/coupons/:id", h.Coupon.Get)
		staff.POST("/coupons/:id/activate", h.Coupon.Activate)
		staff.POST("/coupons/:id/deactivate", h.Coupon.Deactivate)
		staff.DELETE("/coupons/:id", h.Coupon.Delete)

		staff.POST("/inventory/adjustments", h.Inventory.Adjust)
		staff.POST("/inventory/adjustments/batch", h.Inventory.BatchAdjust)
		staff.POST("/inventory/corrections", h.Inventory.RecordCorrection)
		staff.GET("/inventory/transactions", h.Inventory.ListTransactions)
		staff.GET("/products/:id/stock-history", h.Inventory.ProductHistory)
		staff.GET("/products/:id/stock-drift", h.Inventory.Drift)

		staff.POST("/receipts", h.Receipt.Create)
		staff.GET("/receipts", h.Receipt.List)
		staff.GET("/receipts/:id", h.Receipt.Get)
		staff.POST("/receipts/:id/approve", h.Receipt.Approve)
		staff.POST("/receipts/:id/reject", h.Receipt.Reject)

		staff.POST("/payments", h.Payment.Create)
		staff.GET("/payments/:id", h.Payment.Get)
		staff.POST("/payments/:id/refund", h.Payment.Refund)

		recon := staff.Group("/reconciliation")
		{
			recon.POST("/bank-transactions", h.Reconciliation.Import)
			recon.GET("/bank-transactions/unmatched", h.Reconciliation.ListUnmatched)
			recon.POST("/bank-transactions/:id/match", h.Reconciliation.MatchManually)
			recon.GET("/bank-transactions/:id/match", h.Reconciliation.GetByBankTransaction)
			recon.DELETE("/bank-transactions/:id/match", h.Reconciliation.Unmatch)
			recon.POST("/run", h.Reconciliation.RunMatching)
		}
	}

	return engine
}
