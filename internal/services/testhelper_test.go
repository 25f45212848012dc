package services

import (
	"fmt"
	"testing"

	"subscription-api/internal/database"
	"subscription-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the shared database handle at a fresh in-memory sqlite
// database for the duration of one test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	previous := database.DB
	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = previous
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Name: "Test User", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestPackage(t *testing.T, db *gorm.DB, name string, price float64, duration, credits int) *models.Package {
	t.Helper()
	pkg := models.Package{
		Name:     name,
		Price:    price,
		Duration: duration,
		Credits:  credits,
		IsActive: true,
	}
	require.NoError(t, db.Create(&pkg).Error)
	return &pkg
}

func createTestCreditPackage(t *testing.T, db *gorm.DB, name string, credits int, price float64) *models.CreditPackage {
	t.Helper()
	pkg := models.CreditPackage{
		Name:     name,
		Credits:  credits,
		Price:    price,
		IsActive: true,
	}
	require.NoError(t, db.Create(&pkg).Error)
	return &pkg
}

func grantsForUser(t *testing.T, db *gorm.DB, userID string) []models.CreditGrant {
	t.Helper()
	var grants []models.CreditGrant
	require.NoError(t, db.Where("user_id = ?", userID).Order("created_at ASC").Find(&grants).Error)
	return grants
}
