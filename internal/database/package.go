package database

import (
	"subscription-api/internal/models"

	"gorm.io/gorm"
)

// CreatePackage 创建套餐
func CreatePackage(db *gorm.DB, pkg *models.Package) error {
	return db.Create(pkg).Error
}

// GetPackageByID 获取套餐
func GetPackageByID(db *gorm.DB, id string) (*models.Package, error) {
	var pkg models.Package
	err := db.Where("id = ?", id).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// GetPackages 获取套餐列表
func GetPackages(db *gorm.DB, activeOnly bool) ([]models.Package, error) {
	var packages []models.Package
	query := db.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&packages).Error
	return packages, err
}

// UpdatePackage 更新套餐字段
func UpdatePackage(db *gorm.DB, id string, updates map[string]interface{}) (*models.Package, error) {
	result := db.Model(&models.Package{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetPackageByID(db, id)
}

// DeletePackage 删除套餐
func DeletePackage(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Package{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateCreditPackage 创建积分充值包
func CreateCreditPackage(db *gorm.DB, pkg *models.CreditPackage) error {
	return db.Create(pkg).Error
}

// GetCreditPackageByID 获取积分充值包
func GetCreditPackageByID(db *gorm.DB, id string) (*models.CreditPackage, error) {
	var pkg models.CreditPackage
	err := db.Where("id = ?", id).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// GetCreditPackages 获取积分充值包列表
func GetCreditPackages(db *gorm.DB, activeOnly bool) ([]models.CreditPackage, error) {
	var packages []models.CreditPackage
	query := db.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&packages).Error
	return packages, err
}

// UpdateCreditPackage 更新积分充值包字段
func UpdateCreditPackage(db *gorm.DB, id string, updates map[string]interface{}) (*models.CreditPackage, error) {
	result := db.Model(&models.CreditPackage{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetCreditPackageByID(db, id)
}

// DeleteCreditPackage 删除积分充值包
func DeleteCreditPackage(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.CreditPackage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
