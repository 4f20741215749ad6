package handler

import (
	"github.com/abdul977/muahibstores/internal/middleware"
	"github.com/abdul977/muahibstores/pkg/jwtutil"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// Routes holds every handler of the service and the middleware the routes need
type Routes struct {
	Health   *HealthHandler
	Products *ProductHandler
	Media    *MediaHandler
	Visitors *VisitorHandler
	WhatsApp *WhatsAppHandler
	Auth     *AuthHandler

	JWT           *jwtutil.JWTUtil
	Limiter       echo.MiddlewareFunc
	VisitorCookie string
}

// Register mounts the public and admin APIs on e
func (r *Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api", middleware.VisitorCookieMiddleware(r.VisitorCookie))
	api.GET("/products", r.Products.ListProducts)
	api.GET("/products/:id", r.Products.GetProduct)
	api.GET("/products/:id/inquiry", r.Products.ProductInquiry)
	api.GET("/products/:id/qr", r.Products.ProductQRCode)
	api.GET("/categories", r.Products.ListCategories)

	api.POST("/visitor/visit", r.Visitors.Visit)
	api.GET("/visitor/popup", r.Visitors.Popup)
	api.POST("/visitor/popup/shown", r.Visitors.PopupShown)

	api.POST("/whatsapp-numbers", r.WhatsApp.Submit, r.Limiter)

	api.POST("/admin/auth/login", r.Auth.Login, r.Limiter)

	admin := api.Group("/admin", middleware.JWTAuthMiddleware(r.JWT))
	admin.GET("/products", r.Products.AdminListProducts)
	admin.GET("/products/:id", r.Products.AdminGetProduct)
	admin.POST("/products", r.Products.CreateProduct)
	admin.PUT("/products/:id", r.Products.UpdateProduct)
	admin.DELETE("/products/:id", r.Products.DeleteProduct)
	admin.PATCH("/products/:id/visibility", r.Products.ToggleVisibility)
	admin.POST("/products/visibility", r.Products.BulkVisibility)
	admin.GET("/categories", r.Products.AdminListCategories)
	admin.GET("/stats", r.Products.Stats)

	admin.POST("/media/images", r.Media.UploadImage)
	admin.POST("/media/videos", r.Media.UploadVideo)
	admin.DELETE("/media", r.Media.DeleteMedia)

	admin.GET("/whatsapp-numbers", r.WhatsApp.List)
	admin.GET("/whatsapp-numbers/stats", r.WhatsApp.Stats)
	admin.GET("/whatsapp-numbers/export", r.WhatsApp.Export)
	admin.DELETE("/whatsapp-numbers/:id", r.WhatsApp.Delete)

	admin.DELETE("/visitor", r.Visitors.Reset)
}
