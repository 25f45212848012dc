package services

import (
	"errors"
	"fmt"
	"time"

	"subscription-api/internal/config"
	"subscription-api/internal/database"
	"subscription-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// UserService provides account registration and login.
// Authentication here is demo-grade on purpose: accounts carry no password
// hash and login only checks that the account exists. The ledger engine does
// not depend on any of this.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService() *UserService {
	return &UserService{
		db: database.GetDB(),
	}
}

// Register creates a new USER account
func (s *UserService) Register(email, name string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if _, err := database.GetUserByEmail(s.db, email); err == nil {
		return nil, fmt.Errorf("%w: user with email %s already exists", ErrConflict, email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(err)
	}

	user := models.User{
		Email: email,
		Name:  name,
		Role:  models.RoleUser,
	}
	if err := database.CreateUser(s.db, &user); err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// Login returns the account for the email
func (s *UserService) Login(email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	user, err := database.GetUserByEmail(s.db, email)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// GetUser returns one account by id
func (s *UserService) GetUser(id string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	user, err := database.GetUserByID(s.db, id)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// TokenClaims are the JWT claims issued on login
type TokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the user
func (s *UserService) IssueToken(user *models.User) (string, error) {
	expires := time.Now().Add(time.Duration(config.AppConfig.TokenExpireHours) * time.Hour)
	claims := TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its claims
func ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
