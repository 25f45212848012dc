package api

import (
	"subscription-api/internal/response"
	"subscription-api/internal/services"

	"github.com/gin-gonic/gin"
)

// GetAdminOverview returns the dashboard payload: user count, revenue totals
// and the flattened per-subscription table
func GetAdminOverview(c *gin.Context) {
	adminService := services.NewAdminService()
	overview, err := adminService.GetOverview()
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, overview)
}

// GetAdminUsers returns every account with its subscriptions and grants
func GetAdminUsers(c *gin.Context) {
	adminService := services.NewAdminService()
	users, err := adminService.ListUsers()
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, users)
}
