package api

import (
	"net/http"

	"subscription-api/internal/models"
	"subscription-api/internal/response"
	"subscription-api/internal/services"
	"subscription-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// GetSubscriptions lists a user's subscriptions
// GET /api/subscriptions?userId=xxx
func GetSubscriptions(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "User ID is required")
		return
	}

	subscriptionService := services.NewSubscriptionService()
	subscriptions, err := subscriptionService.ListSubscriptions(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, subscriptions)
}

// CreateSubscriptionRequest represents purchase request
type CreateSubscriptionRequest struct {
	UserID           string `json:"userId" binding:"required"`
	PackageID        string `json:"packageId" binding:"required"`
	CarryOverCredits bool   `json:"carryOverCredits"`
}

// CreateSubscription purchases a package for a user
func CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	subscriptionService := services.NewSubscriptionService()
	subscription, err := subscriptionService.CreateSubscription(req.UserID, req.PackageID, req.CarryOverCredits)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Receipt email is a post-commit courtesy of the HTTP layer; the ledger
	// transaction is already done and a send failure only gets logged.
	go sendPurchaseReceipt(req.UserID, subscription)

	response.CreatedJSON(c, subscription)
}

func sendPurchaseReceipt(userID string, subscription *models.Subscription) {
	brevoService := services.NewBrevoService()
	if !brevoService.Enabled() || subscription.Package == nil {
		return
	}

	userService := services.NewUserService()
	user, err := userService.GetUser(userID)
	if err != nil {
		logging.Errorf("Receipt email: failed to load user %s: %v", userID, err)
		return
	}

	if err := brevoService.SendPurchaseReceipt(user.Email, user.Name,
		subscription.Package.Name, subscription.Package.Price, subscription.Package.Credits); err != nil {
		logging.Errorf("Receipt email to %s failed: %v", user.Email, err)
	}
}

// GetSubscription gets one subscription
func GetSubscription(c *gin.Context) {
	subscriptionService := services.NewSubscriptionService()
	subscription, err := subscriptionService.GetSubscription(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, subscription)
}

// UpdateSubscriptionRequest represents status update request
type UpdateSubscriptionRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateSubscription updates a subscription's status. Only the CANCELLED
// transition is accepted: ACTIVE is never re-entered and EXPIRED is computed
// from the end date, not requested.
func UpdateSubscription(c *gin.Context) {
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	if req.Status != models.SubscriptionCancelled {
		response.ErrorJSON(c, http.StatusBadRequest, "Only CANCELLED status can be requested")
		return
	}

	subscriptionService := services.NewSubscriptionService()
	subscription, err := subscriptionService.CancelSubscription(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, subscription)
}

// DeleteAllSubscriptions deletes a user's whole subscription history
// DELETE /api/subscriptions/delete-all?userId=xxx
func DeleteAllSubscriptions(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "User ID is required")
		return
	}

	subscriptionService := services.NewSubscriptionService()
	count, err := subscriptionService.DeleteAllSubscriptions(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, response.SuccessMessage(
		"All subscription history deleted successfully",
		gin.H{"deletedCount": count},
	))
}

// DeleteSelectedSubscriptionsRequest represents selective delete request
type DeleteSelectedSubscriptionsRequest struct {
	UserID          string   `json:"userId" binding:"required"`
	SubscriptionIDs []string `json:"subscriptionIds" binding:"required,min=1"`
}

// DeleteSelectedSubscriptions deletes the chosen subscriptions
func DeleteSelectedSubscriptions(c *gin.Context) {
	var req DeleteSelectedSubscriptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	subscriptionService := services.NewSubscriptionService()
	count, err := subscriptionService.DeleteSelectedSubscriptions(req.UserID, req.SubscriptionIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, response.SuccessMessage(
		"Selected subscriptions deleted successfully",
		gin.H{"deletedCount": count},
	))
}
