package api

import (
	"net/http"
	"time"

	"subscription-api/internal/response"
	"subscription-api/internal/services"

	"github.com/gin-gonic/gin"
)

// GetUserCredits lists a user's credit grants with the total remaining
// GET /api/user-credits?userId=xxx
func GetUserCredits(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "User ID is required")
		return
	}

	creditService := services.NewCreditService()
	grants, total, err := creditService.ListGrants(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response.SuccessJSON(c, gin.H{
		"credits":      grants,
		"totalCredits": total,
	})
}

// CreateUserCreditRequest represents mint grant request
type CreateUserCreditRequest struct {
	UserID          string `json:"userId" binding:"required"`
	PackageID       string `json:"packageId"`
	CreditPackageID string `json:"creditPackageId"`
	Credits         *int   `json:"credits" binding:"required"`
	ExpiryDays      int    `json:"expiryDays"`
}

// CreateUserCredit mints a grant directly (standalone credit purchase or an
// administrative top-up)
func CreateUserCredit(c *gin.Context) {
	var req CreateUserCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	var expiryDate *time.Time
	if req.ExpiryDays > 0 {
		expiry := time.Now().AddDate(0, 0, req.ExpiryDays)
		expiryDate = &expiry
	}

	creditService := services.NewCreditService()
	grant, err := creditService.MintGrant(req.UserID, services.GrantSource{
		PackageID:       req.PackageID,
		CreditPackageID: req.CreditPackageID,
	}, *req.Credits, expiryDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.CreatedJSON(c, grant)
}

// GetUserCredit gets one credit grant
func GetUserCredit(c *gin.Context) {
	creditService := services.NewCreditService()
	grant, err := creditService.GetGrant(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, grant)
}

// UpdateUserCreditRequest represents grant adjustment request
type UpdateUserCreditRequest struct {
	Remaining  *int    `json:"remaining"`
	ExpiryDate *string `json:"expiryDate"` // RFC 3339
}

// UpdateUserCredit lowers a grant's remaining balance or moves its expiry.
// Remaining can never be raised; credits grow only by minting a new grant.
func UpdateUserCredit(c *gin.Context) {
	var req UpdateUserCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	var expiryDate *time.Time
	if req.ExpiryDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ExpiryDate)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "Invalid expiry date, want RFC 3339")
			return
		}
		expiryDate = &parsed
	}

	creditService := services.NewCreditService()
	grant, err := creditService.AdjustGrant(c.Param("id"), req.Remaining, expiryDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, grant)
}

// ConsumeCreditsRequest represents credit consumption request
type ConsumeCreditsRequest struct {
	UserID string `json:"userId" binding:"required"`
	Amount *int   `json:"amount" binding:"required"`
}

// ConsumeCredits spends credits from the user's unexpired grants
func ConsumeCredits(c *gin.Context) {
	var req ConsumeCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	creditService := services.NewCreditService()
	if err := creditService.Consume(req.UserID, *req.Amount); err != nil {
		abortWithError(c, err)
		return
	}

	balance, err := creditService.QueryBalance(req.UserID, "")
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, gin.H{"totalCredits": balance})
}
