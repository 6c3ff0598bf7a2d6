package transport

import (
	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/controllers"
	"github.com/invoicehub/invoicehub.go/lib/cache"
	"github.com/invoicehub/invoicehub.go/lib/middlewares"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/invoicehub/invoicehub.go/lib/tokens"
	"github.com/labstack/echo/v4"
)

// RegisterEndpoints mounts every route behind the session gate. The invoices list is
// served through its view cache, which the write actions revalidate.
func RegisterEndpoints(svc *service.InvoicehubService, e *echo.Echo, invoicesView *cache.ViewCache, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	e.Use(middlewares.Gate(svc.Config.JWTSecret))

	blankCtrl := controllers.NewBlankController(svc)
	e.GET("/api/health", blankCtrl.Health)
	if svc.Config.AdminToken != "" {
		e.POST("/api/revalidate", blankCtrl.Revalidate, tokens.AdminTokenMiddleware(svc.Config.AdminToken), logMw)
	}

	authCtrl := controllers.NewAuthController(svc)
	e.GET(common.LoginPath, authCtrl.LoginPage)
	e.POST(common.LoginPath, authCtrl.Login, strictRateLimitMiddleware, logMw)

	dashboard := e.Group(common.DashboardPath, logMw)
	dashboard.GET("", controllers.NewHomeController(svc).Home)
	dashboard.POST("/logout", authCtrl.Logout)
	dashboard.GET("/customers", controllers.NewCustomersController(svc).Customers)

	invoiceCtrl := controllers.NewInvoiceController(svc)
	invoices := dashboard.Group("/invoices")
	invoices.GET("", invoiceCtrl.ListInvoices, invoicesView.Middleware())
	invoices.POST("", invoiceCtrl.CreateInvoice)
	invoices.GET("/:id/edit", invoiceCtrl.EditInvoice)
	invoices.GET("/:id/qr", invoiceCtrl.QR)
	invoices.POST("/:id", invoiceCtrl.UpdateInvoice)
	invoices.PUT("/:id", invoiceCtrl.UpdateInvoice)
	invoices.POST("/:id/delete", invoiceCtrl.DeleteInvoice)
	invoices.DELETE("/:id", invoiceCtrl.DeleteInvoice)
}
