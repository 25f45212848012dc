package models

import (
	"time"
)

// Subscription statuses. CANCELLED and EXPIRED are terminal: a subscription
// never leaves either state once entered.
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionCancelled = "CANCELLED"
)

// Subscription 订阅模型
// One time-boxed purchase of a package by a user. At most one ACTIVE
// subscription per user is maintained procedurally by the purchase flow.
type Subscription struct {
	BaseModel

	UserID    string `json:"user_id" gorm:"not null;index"`
	PackageID string `json:"package_id" gorm:"not null;index;size:36"`

	Status string `json:"status" gorm:"not null;size:20;index"` // ACTIVE, EXPIRED, CANCELLED

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"` // StartDate + package duration days

	// Weak reference: the package row may have been deleted after purchase.
	// Readers must tolerate a nil Package.
	Package *Package `json:"package,omitempty" gorm:"foreignKey:PackageID;references:ID"`
}

// TableName 指定表名
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsTerminal reports whether the subscription reached a final state
func (s *Subscription) IsTerminal() bool {
	return s.Status == SubscriptionCancelled || s.Status == SubscriptionExpired
}
