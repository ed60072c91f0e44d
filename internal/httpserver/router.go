package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/models"
)

type Deps struct {
	UserHandler     *UserHTTP
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	CartHandler     *CartHTTP
	StockHandler    *StockHTTP
	OrderHandler    *OrderHTTP
	PaymentHandler  *PaymentHTTP
	AddressHandler  *AddressHTTP
	Gate            *auth.Gate
	UploadDir       string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static("/uploads", d.UploadDir)

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("", d.UserHandler.Register)
	users.GET("/verify/:token", d.UserHandler.VerifyEmail)
	users.POST("/login", d.UserHandler.Login)
	users.POST("/forgotpassword", d.UserHandler.ForgotPassword)
	users.GET("/resetpassword/:token", d.UserHandler.ResetPasswordForm)
	users.POST("/resetpassword/:token", d.UserHandler.ResetPassword)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.List, d.Gate.Identify)
	products.GET("/search", d.ProductHandler.Search)
	products.GET("/:id", d.ProductHandler.Get, d.Gate.Identify)
	adminProducts := products.Group("", d.Gate.Protect, auth.RequireRole(models.RoleAdmin))
	adminProducts.POST("", d.ProductHandler.Create)
	adminProducts.PUT("/:id", d.ProductHandler.Update)
	adminProducts.DELETE("/:id", d.ProductHandler.Delete)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.List)
	adminCategories := categories.Group("", d.Gate.Protect, auth.RequireRole(models.RoleAdmin))
	adminCategories.POST("", d.CategoryHandler.Create)
	adminCategories.PUT("/:id", d.CategoryHandler.Rename)
	adminCategories.DELETE("/:id", d.CategoryHandler.Delete)

	cart := api.Group("/cart", d.Gate.Protect)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.PUT("", d.CartHandler.SetQuantity)
	cart.DELETE("/:productId", d.CartHandler.RemoveItem)

	stock := api.Group("/stock", d.Gate.Protect, auth.RequireRole(models.RolePharmacist))
	stock.GET("", d.StockHandler.GetStock)
	stock.PUT("", d.StockHandler.SetQuantity)

	orders := api.Group("/orders", d.Gate.Protect)
	orders.POST("", d.OrderHandler.Place)
	orders.GET("", d.OrderHandler.ListAll, auth.RequireRole(models.RoleAdmin))
	orders.GET("/myorders", d.OrderHandler.ListMine)
	orders.GET("/:id", d.OrderHandler.Get)
	orders.PUT("/:id/pay", d.OrderHandler.Pay)

	payments := api.Group("/payments", d.Gate.Protect)
	payments.POST("/create-payment-intent", d.PaymentHandler.CreateIntent)
	payments.POST("/confirm-payment", d.PaymentHandler.ConfirmIntent)

	methods := api.Group("/payment-methods", d.Gate.Protect)
	methods.GET("", d.PaymentHandler.ListMethods)
	methods.POST("", d.PaymentHandler.AddMethod)
	methods.DELETE("/:id", d.PaymentHandler.RemoveMethod)

	addresses := api.Group("/addresses", d.Gate.Protect)
	addresses.GET("", d.AddressHandler.List)
	addresses.POST("", d.AddressHandler.Create)
	addresses.PUT("/:id", d.AddressHandler.Update)
	addresses.DELETE("/:id", d.AddressHandler.Delete)
}
