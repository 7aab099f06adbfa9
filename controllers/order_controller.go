package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freefirelenden-cell/freefirelenden-sub000/middleware"
	"github.com/freefirelenden-cell/freefirelenden-sub000/services"
)

type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// GetOrders returns the authenticated buyer's orders, newest first.
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, svcErr := oc.orderService.ListBuyerOrders(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderByID returns a single order visible to its buyer, its seller or
// an admin.
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), ctx.Param("id"), userID, middleware.GetRole(ctx))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// GetSellerOrders returns orders for the authenticated seller's shop.
func (oc *OrderController) GetSellerOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, svcErr := oc.orderService.ListSellerOrders(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// StartProcessing moves an order to processing on behalf of its seller.
func (oc *OrderController) StartProcessing(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := oc.orderService.StartProcessing(ctx.Request.Context(), ctx.Param("id"), userID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order is now processing"})
}

// Complete finishes a processing order whose payment has been confirmed.
func (oc *OrderController) Complete(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := oc.orderService.Complete(ctx.Request.Context(), ctx.Param("id"), userID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order completed"})
}

// Cancel cancels an order; who may cancel depends on the order state and
// the caller's role.
func (oc *OrderController) Cancel(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := oc.orderService.Cancel(ctx.Request.Context(), ctx.Param("id"), userID, middleware.GetRole(ctx)); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// ConfirmPayment is the manual-transfer confirmation callback.
func (oc *OrderController) ConfirmPayment(ctx *gin.Context) {
	if svcErr := oc.orderService.ConfirmPayment(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Payment confirmed"})
}

// GetPayment returns a payment attempt for reconciliation (admin only).
func (oc *OrderController) GetPayment(ctx *gin.Context) {
	payment, svcErr := oc.orderService.GetPayment(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payment": payment})
}

// GetRefundIntents lists open refund intents (admin only).
func (oc *OrderController) GetRefundIntents(ctx *gin.Context) {
	intents, svcErr := oc.orderService.ListRefundIntents(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"refund_intents": intents})
}
