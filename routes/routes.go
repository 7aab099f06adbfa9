package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/freefirelenden-cell/freefirelenden-sub000/controllers"
	"github.com/freefirelenden-cell/freefirelenden-sub000/middleware"
	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
)

// Register wires all marketplace routes. Payment confirmation sits under
// /admin because manual transfers are confirmed by an operator, not a
// gateway callback.
func Register(
	r *gin.Engine,
	jwtSecret []byte,
	purchase *controllers.PurchaseController,
	orders *controllers.OrderController,
	sellers *controllers.SellerController,
	listings *controllers.ListingController,
) {
	r.GET("/listings", listings.Browse)

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(jwtSecret))

	auth.POST("/purchases", middleware.RateLimitMiddleware(), purchase.Purchase)

	auth.GET("/orders", orders.GetOrders)
	auth.GET("/orders/:id", orders.GetOrderByID)
	auth.POST("/orders/:id/cancel", orders.Cancel)

	auth.POST("/seller/requests", sellers.SubmitRequest)

	sellerRoutes := auth.Group("/seller")
	sellerRoutes.Use(middleware.RequireRole(models.RoleSeller))
	sellerRoutes.GET("/orders", orders.GetSellerOrders)
	sellerRoutes.POST("/orders/:id/processing", orders.StartProcessing)
	sellerRoutes.POST("/orders/:id/complete", orders.Complete)
	sellerRoutes.POST("/listings", listings.Submit)
	sellerRoutes.GET("/listings", listings.MyListings)

	admin := auth.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/requests", sellers.ListPending)
	admin.POST("/requests/:id/approve", sellers.Approve)
	admin.POST("/requests/:id/reject", sellers.Reject)
	admin.POST("/listings/:id/review", listings.Review)
	admin.POST("/sellers/:id/status", sellers.SetSellerStatus)
	admin.POST("/payments/:id/confirm", orders.ConfirmPayment)
	admin.GET("/payments/:id", orders.GetPayment)
	admin.GET("/refunds", orders.GetRefundIntents)
}
