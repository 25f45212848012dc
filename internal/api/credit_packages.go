package api

import (
	"net/http"

	"subscription-api/internal/response"
	"subscription-api/internal/services"

	"github.com/gin-gonic/gin"
)

// GetCreditPackages lists credit top-up packages
func GetCreditPackages(c *gin.Context) {
	activeOnly := c.Query("activeOnly") == "true"

	packageService := services.NewPackageService()
	packages, err := packageService.ListCreditPackages(activeOnly)
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, packages)
}

// CreateCreditPackageRequest represents create credit package request
type CreateCreditPackageRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Credits     *int     `json:"credits" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
}

// CreateCreditPackage creates a new credit top-up package
func CreateCreditPackage(c *gin.Context) {
	var req CreateCreditPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	packageService := services.NewPackageService()
	pkg, err := packageService.CreateCreditPackage(req.Name, req.Description, *req.Credits, *req.Price)
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.CreatedJSON(c, pkg)
}

// GetCreditPackage gets one credit package
func GetCreditPackage(c *gin.Context) {
	packageService := services.NewPackageService()
	pkg, err := packageService.GetCreditPackage(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, pkg)
}

// UpdateCreditPackageRequest represents update credit package request
type UpdateCreditPackageRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Credits     *int     `json:"credits"`
	Price       *float64 `json:"price"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateCreditPackage updates credit package fields
func UpdateCreditPackage(c *gin.Context) {
	var req UpdateCreditPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Credits != nil {
		updates["credits"] = *req.Credits
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	packageService := services.NewPackageService()
	pkg, err := packageService.UpdateCreditPackage(c.Param("id"), updates)
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, pkg)
}

// DeleteCreditPackage deletes a credit package
func DeleteCreditPackage(c *gin.Context) {
	packageService := services.NewPackageService()
	if err := packageService.DeleteCreditPackage(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, response.SuccessMessage("Credit package deleted successfully", nil))
}
