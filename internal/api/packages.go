package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"subscription-api/internal/database"
	"subscription-api/internal/models"
	"subscription-api/internal/response"
	"subscription-api/internal/services"
	"subscription-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

const packageCacheKey = "cache:packages:active"

// GetPackages lists packages; ?activeOnly=true filters to purchasable ones.
// The active list is cached in Redis briefly since it backs the storefront.
func GetPackages(c *gin.Context) {
	activeOnly := c.Query("activeOnly") == "true"

	if activeOnly {
		if cached, err := database.GetCache(c.Request.Context(), packageCacheKey); err == nil {
			var packages []models.Package
			if json.Unmarshal([]byte(cached), &packages) == nil {
				response.SuccessJSON(c, packages)
				return
			}
		}
	}

	packageService := services.NewPackageService()
	packages, err := packageService.ListPackages(activeOnly)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if activeOnly {
		if raw, err := json.Marshal(packages); err == nil {
			if err := database.SetCache(c.Request.Context(), packageCacheKey, string(raw), time.Minute); err != nil {
				logging.Errorf("Failed to cache package list: %v", err)
			}
		}
	}

	response.SuccessJSON(c, packages)
}

// CreatePackageRequest represents create package request
type CreatePackageRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required"`
	Duration    *int     `json:"duration" binding:"required"`
	Credits     int      `json:"credits"`
	Features    []string `json:"features"`
}

// CreatePackage creates a new package
func CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	packageService := services.NewPackageService()
	pkg, err := packageService.CreatePackage(req.Name, req.Description, *req.Price, *req.Duration, req.Credits, req.Features)
	if err != nil {
		abortWithError(c, err)
		return
	}

	invalidatePackageCache(c.Request.Context())
	response.CreatedJSON(c, pkg)
}

// GetPackage gets one package
func GetPackage(c *gin.Context) {
	packageService := services.NewPackageService()
	pkg, err := packageService.GetPackage(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	response.SuccessJSON(c, pkg)
}

// UpdatePackageRequest represents update package request
type UpdatePackageRequest struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Duration    *int      `json:"duration"`
	Credits     *int      `json:"credits"`
	Features    *[]string `json:"features"`
	IsActive    *bool     `json:"is_active"`
}

// UpdatePackage updates package fields; edits only affect future purchases
func UpdatePackage(c *gin.Context) {
	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	// Build update map
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Credits != nil {
		updates["credits"] = *req.Credits
	}
	if req.Features != nil {
		raw, err := json.Marshal(*req.Features)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "Invalid features")
			return
		}
		updates["features"] = string(raw)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	packageService := services.NewPackageService()
	pkg, err := packageService.UpdatePackage(c.Param("id"), updates)
	if err != nil {
		abortWithError(c, err)
		return
	}

	invalidatePackageCache(c.Request.Context())
	response.SuccessJSON(c, pkg)
}

// DeletePackage deletes a package; existing subscriptions keep their weak
// reference and degrade gracefully
func DeletePackage(c *gin.Context) {
	packageService := services.NewPackageService()
	if err := packageService.DeletePackage(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	invalidatePackageCache(c.Request.Context())
	response.JSON(c, http.StatusOK, response.SuccessMessage("Package deleted successfully", nil))
}

func invalidatePackageCache(ctx context.Context) {
	if err := database.DeleteCache(ctx, packageCacheKey); err != nil {
		logging.Errorf("Failed to invalidate package cache: %v", err)
	}
}
