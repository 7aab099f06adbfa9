package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freefirelenden-cell/freefirelenden-sub000/middleware"
	"github.com/freefirelenden-cell/freefirelenden-sub000/services"
)

type SellerController struct {
	onboardingService services.OnboardingService
}

func NewSellerController(onboardingService services.OnboardingService) *SellerController {
	return &SellerController{onboardingService: onboardingService}
}

// SubmitRequest files a new seller application for the authenticated user.
func (sc *SellerController) SubmitRequest(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.SubmitSellerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	request, svcErr := sc.onboardingService.SubmitRequest(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"request": request})
}

// ListPending returns the admin review queue.
func (sc *SellerController) ListPending(ctx *gin.Context) {
	requests, svcErr := sc.onboardingService.ListPending(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Approve promotes a pending application into an active seller.
func (sc *SellerController) Approve(ctx *gin.Context) {
	approverID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	seller, svcErr := sc.onboardingService.Approve(ctx.Request.Context(), ctx.Param("id"), approverID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"seller": seller})
}

// Reject declines a pending application with a mandatory reason.
func (sc *SellerController) Reject(ctx *gin.Context) {
	var req services.RejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := sc.onboardingService.Reject(ctx.Request.Context(), ctx.Param("id"), req.Reason); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

// SetSellerStatus suspends or reactivates a seller (admin only).
func (sc *SellerController) SetSellerStatus(ctx *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := sc.onboardingService.SetSellerStatus(ctx.Request.Context(), ctx.Param("id"), req.Status); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Seller status updated"})
}
