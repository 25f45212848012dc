package models

import (
	"time"
)

// CreditGrant 用户积分记录
// One unit-of-credits record created at purchase time. Credits (the granted
// amount) is write-once; Remaining only ever decreases through consumption or
// is forced to zero by cancellation, carry-over retirement, bulk deletion or a
// fresh-start purchase. Invariant: 0 <= Remaining <= Credits.
//
// Exactly one of PackageID/CreditPackageID is set, depending on whether the
// grant came from a subscription purchase or a standalone credit top-up.
// SubscriptionID ties subscription grants to the subscription that minted
// them, so resets never touch grants of an unrelated subscription that
// happens to share the package.
type CreditGrant struct {
	BaseModel

	UserID          string  `json:"user_id" gorm:"not null;index"`
	PackageID       *string `json:"package_id,omitempty" gorm:"index;size:36"`
	CreditPackageID *string `json:"credit_package_id,omitempty" gorm:"index;size:36"`
	SubscriptionID  *string `json:"subscription_id,omitempty" gorm:"index;size:36"`

	Credits    int        `json:"credits" gorm:"not null"`            // granted amount, immutable
	Remaining  int        `json:"remaining" gorm:"not null;index"`    // usable balance
	ExpiryDate *time.Time `json:"expiry_date,omitempty" gorm:"index"` // nil means no expiry

	Package       *Package       `json:"package,omitempty" gorm:"foreignKey:PackageID;references:ID"`
	CreditPackage *CreditPackage `json:"credit_package,omitempty" gorm:"foreignKey:CreditPackageID;references:ID"`
}

// TableName 指定表名
func (CreditGrant) TableName() string {
	return "user_credits"
}

// Expired reports whether the grant has passed its expiry date
func (g *CreditGrant) Expired(now time.Time) bool {
	return g.ExpiryDate != nil && g.ExpiryDate.Before(now)
}
