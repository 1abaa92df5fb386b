package api

import (
	"net/http"

	"domainhub/internal/middleware"
	"domainhub/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs
type Handlers struct {
	Orders   *OrderHandler
	Packages *PackageHandler
	Payments *PaymentHandler
	Admin    *AdminHandler
}

// NewHandlers wires handlers on top of the service layer
func NewHandlers(orders *services.OrderService, packages *services.PackageService,
	payments *services.PaymentService, admin *AdminHandler) *Handlers {
	return &Handlers{
		Orders:   NewOrderHandler(orders),
		Packages: NewPackageHandler(packages),
		Payments: NewPaymentHandler(payments),
		Admin:    admin,
	}
}

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Parse order routes (require user authentication)
		orders := api.Group("/parse-orders")
		orders.Use(middleware.UserAuthMiddleware())
		{
			orders.POST("", h.Orders.Create)
			orders.GET("", h.Orders.List)
			orders.POST("/:orderId/pay", h.Orders.Pay)
			orders.POST("/:orderId/cancel", h.Orders.Cancel)
		}

		// Package status routes
		user := api.Group("/user")
		user.Use(middleware.UserAuthMiddleware())
		{
			user.GET("/packages/check", h.Packages.CheckStatus)
		}

		// Payment routes
		paymentAuth := api.Group("/payment")
		paymentAuth.Use(middleware.UserAuthMiddleware())
		{
			paymentAuth.GET("/methods", h.Payments.ListMethods)
		}

		// Gateway async notify (no authentication, signature-verified)
		notify := api.Group("/payment/notify")
		{
			notify.POST("/:method", h.Payments.Notify)
			notify.GET("/:method", h.Payments.Notify)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.UserAuthMiddleware(), middleware.AdminAuthMiddleware())
		{
			admin.GET("/parse-orders", h.Admin.ListOrders)
			admin.POST("/parse-orders/:orderId/review", h.Admin.ReviewOrder)
			admin.GET("/domains/:domainId/records", h.Admin.ListDomainRecords)
			admin.GET("/credentials/:credentialId/zones", h.Admin.ListCredentialZones)
			admin.GET("/payment-settings", h.Admin.ListPaymentSettings)
		}
	}
}
