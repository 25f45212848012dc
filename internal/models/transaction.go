package models

// Transaction statuses
const (
	TransactionCompleted = "COMPLETED"
	TransactionFailed    = "FAILED"
	TransactionPending   = "PENDING"
)

// Transaction 交易记录
// Append-only payment audit trail: one row per completed purchase, never
// mutated after creation.
type Transaction struct {
	BaseModel

	UserID          string  `json:"user_id" gorm:"not null;index"`
	PackageID       *string `json:"package_id,omitempty" gorm:"index;size:36"`
	CreditPackageID *string `json:"credit_package_id,omitempty" gorm:"index;size:36"`

	Amount float64 `json:"amount" gorm:"not null"`
	Status string  `json:"status" gorm:"not null;size:20;index"` // COMPLETED, FAILED, PENDING
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}
