package api

import (
	"net/http"

	"subscription-api/internal/response"
	"subscription-api/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterRequest represents register request
type RegisterRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// Register creates a new account and returns a session token
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	userService := services.NewUserService()
	user, err := userService.Register(req.Email, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := userService.IssueToken(user)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	response.JSON(c, http.StatusCreated, response.Success(gin.H{
		"user":  user,
		"token": token,
	}))
}

// LoginRequest represents login request
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Login returns a session token for an existing account
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	userService := services.NewUserService()
	user, err := userService.Login(req.Email)
	if err != nil {
		response.ErrorJSON(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := userService.IssueToken(user)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	response.SuccessJSON(c, gin.H{
		"user":  user,
		"token": token,
	})
}
