package services

import (
	"encoding/json"
	"fmt"

	"subscription-api/internal/database"
	"subscription-api/internal/models"

	"gorm.io/gorm"
)

// PackageService provides package and credit-package management.
// Edits never rewrite history: subscriptions copy the price onto their
// transaction and the credits onto their grant at purchase time.
type PackageService struct {
	db *gorm.DB
}

// NewPackageService creates a new package service
func NewPackageService() *PackageService {
	return &PackageService{
		db: database.GetDB(),
	}
}

// CreatePackage 创建套餐
func (s *PackageService) CreatePackage(name, description string, price float64, duration, credits int, features []string) (*models.Package, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if credits < 0 {
		return nil, fmt.Errorf("%w: credits must not be negative", ErrInvalidInput)
	}

	pkg := models.Package{
		Name:        name,
		Description: description,
		Price:       price,
		Duration:    duration,
		Credits:     credits,
		IsActive:    true,
	}
	if len(features) > 0 {
		raw, err := json.Marshal(features)
		if err != nil {
			return nil, fmt.Errorf("%w: features: %v", ErrInvalidInput, err)
		}
		pkg.Features = string(raw)
	}

	if err := database.CreatePackage(s.db, &pkg); err != nil {
		return nil, storeError(err)
	}
	return &pkg, nil
}

// GetPackage 获取套餐
func (s *PackageService) GetPackage(id string) (*models.Package, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: package id is required", ErrInvalidInput)
	}
	pkg, err := database.GetPackageByID(s.db, id)
	if err != nil {
		return nil, storeError(err)
	}
	return pkg, nil
}

// ListPackages 获取套餐列表
func (s *PackageService) ListPackages(activeOnly bool) ([]models.Package, error) {
	packages, err := database.GetPackages(s.db, activeOnly)
	if err != nil {
		return nil, storeError(err)
	}
	return packages, nil
}

// UpdatePackage applies the non-nil fields; edits only affect future purchases
func (s *PackageService) UpdatePackage(id string, updates map[string]interface{}) (*models.Package, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: package id is required", ErrInvalidInput)
	}
	if price, ok := updates["price"].(float64); ok && price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if credits, ok := updates["credits"].(int); ok && credits < 0 {
		return nil, fmt.Errorf("%w: credits must not be negative", ErrInvalidInput)
	}

	pkg, err := database.UpdatePackage(s.db, id, updates)
	if err != nil {
		return nil, storeError(err)
	}
	return pkg, nil
}

// DeletePackage 删除套餐
// Existing subscriptions keep their weak reference; reads degrade to a nil
// package rather than failing.
func (s *PackageService) DeletePackage(id string) error {
	if id == "" {
		return fmt.Errorf("%w: package id is required", ErrInvalidInput)
	}
	return storeError(database.DeletePackage(s.db, id))
}

// CreateCreditPackage 创建积分充值包
func (s *PackageService) CreateCreditPackage(name, description string, credits int, price float64) (*models.CreditPackage, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if credits <= 0 {
		return nil, fmt.Errorf("%w: credits must be positive", ErrInvalidInput)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	pkg := models.CreditPackage{
		Name:        name,
		Description: description,
		Credits:     credits,
		Price:       price,
		IsActive:    true,
	}
	if err := database.CreateCreditPackage(s.db, &pkg); err != nil {
		return nil, storeError(err)
	}
	return &pkg, nil
}

// GetCreditPackage 获取积分充值包
func (s *PackageService) GetCreditPackage(id string) (*models.CreditPackage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: credit package id is required", ErrInvalidInput)
	}
	pkg, err := database.GetCreditPackageByID(s.db, id)
	if err != nil {
		return nil, storeError(err)
	}
	return pkg, nil
}

// ListCreditPackages 获取积分充值包列表
func (s *PackageService) ListCreditPackages(activeOnly bool) ([]models.CreditPackage, error) {
	packages, err := database.GetCreditPackages(s.db, activeOnly)
	if err != nil {
		return nil, storeError(err)
	}
	return packages, nil
}

// UpdateCreditPackage 更新积分充值包
func (s *PackageService) UpdateCreditPackage(id string, updates map[string]interface{}) (*models.CreditPackage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: credit package id is required", ErrInvalidInput)
	}
	pkg, err := database.UpdateCreditPackage(s.db, id, updates)
	if err != nil {
		return nil, storeError(err)
	}
	return pkg, nil
}

// DeleteCreditPackage 删除积分充值包
func (s *PackageService) DeleteCreditPackage(id string) error {
	if id == "" {
		return fmt.Errorf("%w: credit package id is required", ErrInvalidInput)
	}
	return storeError(database.DeleteCreditPackage(s.db, id))
}
