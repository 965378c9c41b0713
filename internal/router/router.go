package router

import (
	"net/http"
	"time"

	"store-service/internal/handlers"
	"store-service/internal/middleware"
	"store-service/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Catalog       *handlers.CatalogHandler
	Cart          *handlers.CartHandler
	Orders        *handlers.OrderHandler
	Payments      *handlers.PaymentHandler
	Notifications *handlers.NotificationHandler
	Inventory     *handlers.InventoryHandler
	Reviews       *handlers.ReviewHandler

	Tokens middleware.TokenParser
	// Cooldown may be nil.
	Cooldown    middleware.CooldownStore
	CooldownTTL time.Duration
}

func Router(d Deps, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.GET("/products", d.Catalog.ListProducts)
	api.GET("/products/:id", d.Catalog.GetProduct)
	api.GET("/products/:id/reviews", d.Reviews.List)
	api.GET("/categories", d.Catalog.ListCategories)

	api.GET("/notifications/ws", middleware.AuthRequiredQuery(d.Tokens, log), d.Notifications.Stream)

	auth := api.Group("", middleware.AuthRequired(d.Tokens, log))
	{
		checkout := middleware.Cooldown(d.Cooldown, "checkout", d.CooldownTTL, log)
		payment := middleware.Cooldown(d.Cooldown, "payment", d.CooldownTTL, log)

		auth.GET("/cart", d.Cart.GetCart)
		auth.POST("/cart/items", d.Cart.AddToCart)
		auth.DELETE("/cart/items/:id", d.Cart.RemoveFromCart)

		auth.POST("/orders", checkout, d.Orders.PlaceOrder)
		auth.POST("/orders/direct", checkout, d.Orders.PlaceDirectOrder)
		auth.GET("/orders", d.Orders.ListOrders)
		auth.GET("/orders/latest", d.Orders.LatestOrder)
		auth.GET("/orders/:id", d.Orders.GetOrder)

		auth.POST("/payments", payment, d.Payments.Pay)

		auth.POST("/products/:id/reviews", d.Reviews.Submit)

		auth.GET("/notifications", d.Notifications.ListNotifications)
		auth.GET("/notifications/unread-count", d.Notifications.UnreadCount)
		auth.POST("/notifications/:id/read", d.Notifications.MarkRead)
	}

	admin := api.Group("/admin", middleware.AuthRequired(d.Tokens, log), middleware.RequireRole(token.RoleAdmin))
	{
		admin.POST("/products", d.Catalog.CreateProduct)
		admin.PATCH("/products/:id", d.Catalog.UpdateProduct)
		admin.POST("/categories", d.Catalog.CreateCategory)
		admin.PATCH("/reviews/:id/approve", d.Reviews.Approve)

		admin.PATCH("/orders/:id/status", d.Orders.UpdateOrderStatus)
		admin.PATCH("/orders/:id/tracking", d.Orders.UpdateTracking)

		admin.POST("/farm-tools", d.Inventory.CreateFarmTool)
		admin.PUT("/inventory", d.Inventory.SetInventory)
		admin.GET("/inventory", d.Inventory.ListInventory)
	}

	return r
}
