package database

import (
	"time"

	"subscription-api/internal/models"

	"gorm.io/gorm"
)

// CreateTransaction 创建交易记录
// Transactions are append-only: there is deliberately no update helper.
func CreateTransaction(db *gorm.DB, transaction *models.Transaction) error {
	return db.Create(transaction).Error
}

// GetUserTransactions 获取用户的交易记录
func GetUserTransactions(db *gorm.DB, userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

// SumCompletedRevenue 统计已完成交易的总额
// since limits the window; pass nil for all time.
func SumCompletedRevenue(db *gorm.DB, since *time.Time) (float64, error) {
	var total float64
	query := db.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionCompleted)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}
