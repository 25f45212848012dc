package services

import (
	"errors"
	"fmt"

	"subscription-api/internal/database"
	"subscription-api/pkg/logging"

	"gorm.io/gorm"
)

// CarryOverResolver computes the credit total to seed a new subscription when
// the purchaser keeps unused credits from a currently active one, and retires
// that old subscription in the same breath: status to CANCELLED, its grants
// to zero. The read and both writes happen inside the caller's transaction so
// the balance can never be counted twice or lost part-way.
type CarryOverResolver struct{}

// NewCarryOverResolver creates a new carry-over resolver
func NewCarryOverResolver() *CarryOverResolver {
	return &CarryOverResolver{}
}

// Resolve finds the user's active subscription, sums the remaining balance of
// its grants, cancels it and zeroes those grants. Returns the balance and the
// retired subscription's id. No active subscription is not an error: the
// result is simply (0, nil).
//
// The ACTIVE -> CANCELLED transition carries an optimistic status guard; if a
// writer outside this process retired the subscription first, Resolve reports
// ErrConflict and the caller's transaction rolls back.
func (r *CarryOverResolver) Resolve(tx *gorm.DB, userID string) (int, *string, error) {
	active, err := database.GetActiveSubscription(tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, nil
		}
		return 0, nil, storeError(err)
	}

	filter := database.CreditFilter{
		UserID:         userID,
		SubscriptionID: active.ID,
	}

	extraCredits, err := database.SumRemainingCredits(tx, filter)
	if err != nil {
		return 0, nil, storeError(err)
	}

	rows, err := database.CancelSubscriptionIfActive(tx, active.ID)
	if err != nil {
		return 0, nil, storeError(err)
	}
	if rows == 0 {
		// Someone else retired it between the read and the write
		return 0, nil, fmt.Errorf("%w: subscription %s was retired concurrently", ErrConflict, active.ID)
	}

	if _, err := database.ResetRemainingCredits(tx, filter); err != nil {
		return 0, nil, storeError(err)
	}

	logging.Infof("Carry-over: retired subscription %s for user %s, carrying %d credits",
		active.ID, userID, extraCredits)

	return extraCredits, &active.ID, nil
}
