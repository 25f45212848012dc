package database

import (
	"subscription-api/internal/models"

	"gorm.io/gorm"
)

// CreateSubscription 创建订阅
func CreateSubscription(db *gorm.DB, subscription *models.Subscription) error {
	return db.Create(subscription).Error
}

// GetSubscriptionByID 获取订阅（含套餐信息）
func GetSubscriptionByID(db *gorm.DB, id string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := db.Preload("Package").Where("id = ?", id).First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// GetUserSubscriptions 获取用户的所有订阅
func GetUserSubscriptions(db *gorm.DB, userID string) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := db.Preload("Package").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subscriptions).Error
	return subscriptions, err
}

// GetActiveSubscription 获取用户当前的 ACTIVE 订阅
// At most one is expected; if an earlier invariant violation left several,
// the most recently created one wins (defensive tie-break).
func GetActiveSubscription(db *gorm.DB, userID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := db.Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Order("created_at DESC").
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// CancelSubscriptionIfActive transitions ACTIVE -> CANCELLED with an
// optimistic status guard. Returns the number of rows updated: 0 means some
// concurrent writer already retired the subscription.
func CancelSubscriptionIfActive(db *gorm.DB, subscriptionID string) (int64, error) {
	result := db.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", subscriptionID, models.SubscriptionActive).
		Update("status", models.SubscriptionCancelled)
	return result.RowsAffected, result.Error
}

// UpdateSubscriptionStatus 更新订阅状态
func UpdateSubscriptionStatus(db *gorm.DB, subscriptionID, status string) error {
	return db.Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Update("status", status).Error
}

// DeleteUserSubscriptions 删除用户的所有订阅
func DeleteUserSubscriptions(db *gorm.DB, userID string) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&models.Subscription{})
	return result.RowsAffected, result.Error
}

// DeleteUserSubscriptionsByID 删除用户的指定订阅
func DeleteUserSubscriptionsByID(db *gorm.DB, userID string, subscriptionIDs []string) (int64, error) {
	result := db.Where("user_id = ? AND id IN ?", userID, subscriptionIDs).
		Delete(&models.Subscription{})
	return result.RowsAffected, result.Error
}
