package services

import (
	"fmt"
	"time"

	"subscription-api/internal/database"
	"subscription-api/internal/models"

	"gorm.io/gorm"
)

// CreditService is the credit ledger: it mints grants, answers balance
// queries and owns the forced-reset primitive. A grant's granted amount is
// write-once; remaining only decreases (consumption) or drops to zero
// (forced reset).
type CreditService struct {
	db *gorm.DB
}

// NewCreditService creates a new credit service
func NewCreditService() *CreditService {
	return &CreditService{
		db: database.GetDB(),
	}
}

// GrantSource identifies where a grant's credits came from. Exactly one of
// PackageID/CreditPackageID must be set; SubscriptionID additionally links
// subscription-purchase grants to the subscription that minted them.
type GrantSource struct {
	PackageID       string
	CreditPackageID string
	SubscriptionID  string
}

// MintGrant creates a new credit grant with remaining initialized to amount.
// Zero-credit grants are allowed so credit-free packages still leave an audit
// record; negative amounts are rejected before any write.
func (s *CreditService) MintGrant(userID string, source GrantSource, amount int, expiryDate *time.Time) (*models.CreditGrant, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: credit amount must not be negative", ErrInvalidInput)
	}
	if (source.PackageID == "") == (source.CreditPackageID == "") {
		return nil, fmt.Errorf("%w: exactly one of package id or credit package id is required", ErrInvalidInput)
	}

	grant := models.CreditGrant{
		UserID:     userID,
		Credits:    amount,
		Remaining:  amount,
		ExpiryDate: expiryDate,
	}

	// Validate the referenced offer before writing anything
	if source.PackageID != "" {
		if _, err := database.GetPackageByID(s.db, source.PackageID); err != nil {
			return nil, storeError(err)
		}
		grant.PackageID = &source.PackageID
	}
	if source.CreditPackageID != "" {
		if _, err := database.GetCreditPackageByID(s.db, source.CreditPackageID); err != nil {
			return nil, storeError(err)
		}
		grant.CreditPackageID = &source.CreditPackageID
	}
	if source.SubscriptionID != "" {
		grant.SubscriptionID = &source.SubscriptionID
	}

	if err := database.CreateCreditGrant(s.db, &grant); err != nil {
		return nil, storeError(err)
	}
	return &grant, nil
}

// QueryBalance sums remaining over the user's grants, optionally scoped to
// one package. Read-only.
func (s *CreditService) QueryBalance(userID, packageID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	total, err := database.SumRemainingCredits(s.db, database.CreditFilter{
		UserID:    userID,
		PackageID: packageID,
	})
	if err != nil {
		return 0, storeError(err)
	}
	return total, nil
}

// ResetRemaining forces remaining = 0 on every grant matching the filter that
// still holds a balance and returns the count affected. Zero matches is
// success with count 0.
func (s *CreditService) ResetRemaining(filter database.CreditFilter) (int64, error) {
	if filter.UserID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	count, err := database.ResetRemainingCredits(s.db, filter)
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

// ListGrants returns the user's grants newest first plus the total remaining
// balance across all of them
func (s *CreditService) ListGrants(userID string) ([]models.CreditGrant, int, error) {
	if userID == "" {
		return nil, 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	grants, err := database.GetUserCreditGrants(s.db, userID)
	if err != nil {
		return nil, 0, storeError(err)
	}
	total := 0
	for _, g := range grants {
		total += g.Remaining
	}
	return grants, total, nil
}

// GetGrant returns one grant by id
func (s *CreditService) GetGrant(id string) (*models.CreditGrant, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: grant id is required", ErrInvalidInput)
	}
	grant, err := database.GetCreditGrantByID(s.db, id)
	if err != nil {
		return nil, storeError(err)
	}
	return grant, nil
}

// AdjustGrant updates a grant's remaining balance and/or expiry date.
// Remaining may only move down: 0 <= new remaining <= current remaining.
// Raising it is rejected, matching the ledger rule that balances grow only by
// minting a fresh grant.
func (s *CreditService) AdjustGrant(id string, remaining *int, expiryDate *time.Time) (*models.CreditGrant, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: grant id is required", ErrInvalidInput)
	}
	if remaining != nil && *remaining < 0 {
		return nil, fmt.Errorf("%w: remaining must not be negative", ErrInvalidInput)
	}

	grant, err := database.GetCreditGrantByID(s.db, id)
	if err != nil {
		return nil, storeError(err)
	}

	unlock := userLocks.lock(grant.UserID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		current, err := database.GetCreditGrantByID(tx, id)
		if err != nil {
			return storeError(err)
		}
		if remaining != nil {
			if *remaining > current.Remaining {
				return fmt.Errorf("%w: remaining can only be lowered (have %d, requested %d)",
					ErrConflict, current.Remaining, *remaining)
			}
			current.Remaining = *remaining
		}
		if expiryDate != nil {
			current.ExpiryDate = expiryDate
		}
		if err := database.UpdateCreditGrant(tx, current); err != nil {
			return storeError(err)
		}
		grant = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// Consume spends amount credits from the user's unexpired grants, soonest
// expiry first. The whole spend commits atomically; an insufficient balance
// changes nothing.
func (s *CreditService) Consume(userID string, amount int) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: consume amount must be positive", ErrInvalidInput)
	}

	unlock := userLocks.lock(userID)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		grants, err := database.GetSpendableCreditGrants(tx, userID)
		if err != nil {
			return storeError(err)
		}

		left := amount
		for i := range grants {
			if left == 0 {
				break
			}
			spend := grants[i].Remaining
			if spend > left {
				spend = left
			}
			grants[i].Remaining -= spend
			left -= spend
			if err := database.UpdateCreditGrant(tx, &grants[i]); err != nil {
				return storeError(err)
			}
		}
		if left > 0 {
			return fmt.Errorf("%w: insufficient credits (short by %d)", ErrConflict, left)
		}
		return nil
	})
}
