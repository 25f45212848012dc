package models

// Package 订阅套餐
// A purchasable offer. Edits only affect future purchases; subscriptions keep
// the values that were current at purchase time (price is copied onto the
// transaction, credits onto the grant).
type Package struct {
	BaseModel

	Name        string  `json:"name" gorm:"not null;size:100"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"not null"`
	Duration    int     `json:"duration" gorm:"not null"` // subscription length in days
	Credits     int     `json:"credits" gorm:"default:0"` // credits granted on purchase
	Features    string  `json:"features" gorm:"type:text"` // JSON array string
	IsActive    bool    `json:"is_active" gorm:"default:true"`
}

// TableName 指定表名
func (Package) TableName() string {
	return "packages"
}

// CreditPackage 积分充值包
// Standalone credit top-up offer, not tied to any subscription
type CreditPackage struct {
	BaseModel

	Name        string  `json:"name" gorm:"not null;size:100"`
	Description string  `json:"description" gorm:"type:text"`
	Credits     int     `json:"credits" gorm:"not null"`
	Price       float64 `json:"price" gorm:"not null"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`
}

// TableName 指定表名
func (CreditPackage) TableName() string {
	return "credit_packages"
}
