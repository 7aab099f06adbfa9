package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freefirelenden-cell/freefirelenden-sub000/middleware"
	"github.com/freefirelenden-cell/freefirelenden-sub000/services"
)

type PurchaseController struct {
	purchaseService services.PurchaseService
}

func NewPurchaseController(purchaseService services.PurchaseService) *PurchaseController {
	return &PurchaseController{purchaseService: purchaseService}
}

// Purchase handles a buy request for a single listing.
func (pc *PurchaseController) Purchase(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, svcErr := pc.purchaseService.Purchase(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, result)
}
