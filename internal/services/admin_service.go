package services

import (
	"time"

	"subscription-api/internal/database"
	"subscription-api/internal/models"

	"gorm.io/gorm"
)

// AdminService builds the admin overview: user roster, revenue totals and a
// flat per-subscription table for the dashboard.
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates a new admin service
func NewAdminService() *AdminService {
	return &AdminService{
		db: database.GetDB(),
	}
}

// UserSubscriptionRow is one dashboard table row. Package fields stay empty
// when the package row was deleted after purchase; a vanished package never
// fails the report.
type UserSubscriptionRow struct {
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	PackageName  string    `json:"package_name"`
	DurationDays int       `json:"duration_days"`
	Price        float64   `json:"price"`
	Credits      int       `json:"credits"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Status       string    `json:"status"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// Overview is the admin dashboard payload
type Overview struct {
	TotalUsers     int                   `json:"total_users"`
	TotalRevenue   float64               `json:"total_revenue"`
	MonthlyRevenue float64               `json:"monthly_revenue"`
	Subscriptions  []UserSubscriptionRow `json:"subscriptions"`
}

// GetOverview 获取后台总览数据
// Revenue is summed over COMPLETED transactions only; monthly revenue covers
// the current calendar month.
func (s *AdminService) GetOverview() (*Overview, error) {
	users, err := database.GetAllUsers(s.db)
	if err != nil {
		return nil, storeError(err)
	}

	totalRevenue, err := database.SumCompletedRevenue(s.db, nil)
	if err != nil {
		return nil, storeError(err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthlyRevenue, err := database.SumCompletedRevenue(s.db, &monthStart)
	if err != nil {
		return nil, storeError(err)
	}

	overview := Overview{
		TotalUsers:     len(users),
		TotalRevenue:   totalRevenue,
		MonthlyRevenue: monthlyRevenue,
		Subscriptions:  []UserSubscriptionRow{},
	}

	for _, user := range users {
		subscriptions, err := database.GetUserSubscriptions(s.db, user.ID)
		if err != nil {
			return nil, storeError(err)
		}
		grants, err := database.GetUserCreditGrants(s.db, user.ID)
		if err != nil {
			return nil, storeError(err)
		}

		for _, subscription := range subscriptions {
			row := UserSubscriptionRow{
				UserID:       user.ID,
				UserName:     user.Name,
				UserEmail:    user.Email,
				ExpiryDate:   subscription.EndDate,
				Status:       subscription.Status,
				PurchaseDate: subscription.CreatedAt,
			}
			if subscription.Package != nil {
				row.PackageName = subscription.Package.Name
				row.DurationDays = subscription.Package.Duration
				row.Price = subscription.Package.Price
			}
			for _, grant := range grants {
				if grant.SubscriptionID != nil && *grant.SubscriptionID == subscription.ID {
					row.Credits += grant.Credits
				}
			}
			overview.Subscriptions = append(overview.Subscriptions, row)
		}
	}

	return &overview, nil
}

// ListUsers returns every account with subscriptions and grants attached
func (s *AdminService) ListUsers() ([]AdminUser, error) {
	users, err := database.GetAllUsers(s.db)
	if err != nil {
		return nil, storeError(err)
	}

	result := make([]AdminUser, 0, len(users))
	for _, user := range users {
		subscriptions, err := database.GetUserSubscriptions(s.db, user.ID)
		if err != nil {
			return nil, storeError(err)
		}
		grants, err := database.GetUserCreditGrants(s.db, user.ID)
		if err != nil {
			return nil, storeError(err)
		}
		result = append(result, AdminUser{
			User:          user,
			Subscriptions: subscriptions,
			Credits:       grants,
		})
	}
	return result, nil
}

// AdminUser is one account with its owned records
type AdminUser struct {
	models.User
	Subscriptions []models.Subscription `json:"subscriptions"`
	Credits       []models.CreditGrant  `json:"credits"`
}
