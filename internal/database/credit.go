package database

import (
	"time"

	"subscription-api/internal/models"

	"gorm.io/gorm"
)

// CreditFilter selects credit grants by owner and optional source scope.
// Zero-valued fields are ignored.
type CreditFilter struct {
	UserID          string
	PackageID       string
	SubscriptionID  string
	SubscriptionIDs []string
}

func (f CreditFilter) apply(db *gorm.DB) *gorm.DB {
	query := db.Where("user_id = ?", f.UserID)
	if f.PackageID != "" {
		query = query.Where("package_id = ?", f.PackageID)
	}
	if f.SubscriptionID != "" {
		query = query.Where("subscription_id = ?", f.SubscriptionID)
	}
	if len(f.SubscriptionIDs) > 0 {
		query = query.Where("subscription_id IN ?", f.SubscriptionIDs)
	}
	return query
}

// CreateCreditGrant 创建积分记录
func CreateCreditGrant(db *gorm.DB, grant *models.CreditGrant) error {
	return db.Create(grant).Error
}

// GetCreditGrantByID 获取积分记录（含套餐信息）
func GetCreditGrantByID(db *gorm.DB, id string) (*models.CreditGrant, error) {
	var grant models.CreditGrant
	err := db.Preload("Package").Preload("CreditPackage").
		Where("id = ?", id).First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// GetUserCreditGrants 获取用户的所有积分记录
func GetUserCreditGrants(db *gorm.DB, userID string) ([]models.CreditGrant, error) {
	var grants []models.CreditGrant
	err := db.Preload("Package").Preload("CreditPackage").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&grants).Error
	return grants, err
}

// GetSpendableCreditGrants returns the user's unexpired grants with a
// positive balance, soonest expiry first (grants without expiry last).
func GetSpendableCreditGrants(db *gorm.DB, userID string) ([]models.CreditGrant, error) {
	var grants []models.CreditGrant
	err := db.Where("user_id = ? AND remaining > 0", userID).
		Where("expiry_date IS NULL OR expiry_date > ?", time.Now()).
		Order("expiry_date IS NULL, expiry_date ASC").
		Find(&grants).Error
	return grants, err
}

// SumRemainingCredits 统计剩余积分
func SumRemainingCredits(db *gorm.DB, filter CreditFilter) (int, error) {
	var total int64
	err := filter.apply(db.Model(&models.CreditGrant{})).
		Where("remaining > 0").
		Select("COALESCE(SUM(remaining), 0)").
		Scan(&total).Error
	return int(total), err
}

// ResetRemainingCredits forces remaining = 0 on every grant matching the
// filter that still holds a balance, and returns the number of grants
// affected. Every forced-reset path (cancellation, carry-over retirement,
// fresh-start purchase, bulk deletes) funnels through here.
func ResetRemainingCredits(db *gorm.DB, filter CreditFilter) (int64, error) {
	result := filter.apply(db.Model(&models.CreditGrant{})).
		Where("remaining > 0").
		Update("remaining", 0)
	return result.RowsAffected, result.Error
}

// UpdateCreditGrant 更新积分记录
func UpdateCreditGrant(db *gorm.DB, grant *models.CreditGrant) error {
	return db.Save(grant).Error
}
