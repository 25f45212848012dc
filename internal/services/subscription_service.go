package services

import (
	"errors"
	"fmt"
	"time"

	"subscription-api/internal/database"
	"subscription-api/internal/models"
	"subscription-api/pkg/logging"

	"gorm.io/gorm"
)

// Grants minted by a purchase expire a fixed 30 days after minting,
// independent of the package duration.
const creditExpiryDays = 30

// SubscriptionService is the subscription lifecycle manager: it creates,
// cancels and bulk-deletes subscriptions, keeping the credit ledger in step.
// Every multi-step flow runs inside one database transaction under the
// per-user lock, so no partially applied purchase or cancellation is ever
// visible to a concurrent reader.
type SubscriptionService struct {
	db       *gorm.DB
	resolver *CarryOverResolver
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService() *SubscriptionService {
	return &SubscriptionService{
		db:       database.GetDB(),
		resolver: NewCarryOverResolver(),
	}
}

// CreateSubscription purchases packageID for userID.
//
// With carryOver, the remaining balance of the user's active subscription is
// added to the new grant and that subscription is retired; holding no active
// subscription just means nothing is carried. Without carryOver the purchase
// is a fresh start: every outstanding grant the user holds is zeroed first,
// whatever package it came from.
//
// Either way the new subscription starts ACTIVE, a COMPLETED transaction is
// recorded for the package price, and exactly one grant is minted for
// package credits plus any carried balance. A prior ACTIVE subscription is
// always retired so no user ends up with two.
func (s *SubscriptionService) CreateSubscription(userID, packageID string, carryOver bool) (*models.Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if packageID == "" {
		return nil, fmt.Errorf("%w: package id is required", ErrInvalidInput)
	}

	// Resolve the package before mutating anything
	pkg, err := database.GetPackageByID(s.db, packageID)
	if err != nil {
		return nil, storeError(err)
	}

	unlock := userLocks.lock(userID)
	defer unlock()

	subscription, err := s.purchase(userID, pkg, carryOver)
	if errors.Is(err, ErrConflict) {
		// A writer outside this process raced the carry-over resolution;
		// one retry re-reads the balance from the committed state.
		logging.Warnf("Purchase conflict for user %s, retrying once", userID)
		subscription, err = s.purchase(userID, pkg, carryOver)
	}
	if err != nil {
		return nil, err
	}

	logging.Infof("User %s purchased package %s (subscription %s, carry-over %t)",
		userID, pkg.ID, subscription.ID, carryOver)
	return subscription, nil
}

func (s *SubscriptionService) purchase(userID string, pkg *models.Package, carryOver bool) (*models.Subscription, error) {
	var created models.Subscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		extraCredits := 0

		if carryOver {
			extra, _, err := s.resolver.Resolve(tx, userID)
			if err != nil {
				return err
			}
			extraCredits = extra
		} else {
			// Fresh start: forfeit every outstanding grant, not just the
			// superseded package's
			if _, err := database.ResetRemainingCredits(tx, database.CreditFilter{UserID: userID}); err != nil {
				return storeError(err)
			}
			// Retire a previous active subscription so at most one stays ACTIVE
			prev, err := database.GetActiveSubscription(tx, userID)
			if err == nil {
				if _, err := database.CancelSubscriptionIfActive(tx, prev.ID); err != nil {
					return storeError(err)
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return storeError(err)
			}
		}

		now := time.Now()
		created = models.Subscription{
			UserID:    userID,
			PackageID: pkg.ID,
			Status:    models.SubscriptionActive,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, pkg.Duration),
		}
		if err := database.CreateSubscription(tx, &created); err != nil {
			return storeError(err)
		}

		transaction := models.Transaction{
			UserID:    userID,
			PackageID: &pkg.ID,
			Amount:    pkg.Price,
			Status:    models.TransactionCompleted,
		}
		if err := database.CreateTransaction(tx, &transaction); err != nil {
			return storeError(err)
		}

		total := pkg.Credits + extraCredits
		expiry := now.AddDate(0, 0, creditExpiryDays)
		grant := models.CreditGrant{
			UserID:         userID,
			PackageID:      &pkg.ID,
			SubscriptionID: &created.ID,
			Credits:        total,
			Remaining:      total,
			ExpiryDate:     &expiry,
		}
		return storeError(database.CreateCreditGrant(tx, &grant))
	})
	if err != nil {
		return nil, err
	}

	created.Package = pkg
	return &created, nil
}

// CancelSubscription sets the subscription to CANCELLED and zeroes the
// remaining balance of every grant it minted. Cancelling a subscription that
// is already CANCELLED or EXPIRED is a no-op success: its grants hold no
// balance anyway, and the record is returned unchanged.
func (s *SubscriptionService) CancelSubscription(subscriptionID string) (*models.Subscription, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("%w: subscription id is required", ErrInvalidInput)
	}

	subscription, err := database.GetSubscriptionByID(s.db, subscriptionID)
	if err != nil {
		return nil, storeError(err)
	}

	unlock := userLocks.lock(subscription.UserID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := database.CancelSubscriptionIfActive(tx, subscriptionID)
		if err != nil {
			return storeError(err)
		}
		if rows == 0 {
			// Already terminal: nothing to reset
			return nil
		}
		_, err = database.ResetRemainingCredits(tx, database.CreditFilter{
			UserID:         subscription.UserID,
			SubscriptionID: subscriptionID,
		})
		return storeError(err)
	})
	if err != nil {
		return nil, err
	}

	subscription, err = database.GetSubscriptionByID(s.db, subscriptionID)
	if err != nil {
		return nil, storeError(err)
	}
	logging.Infof("Subscription %s is %s", subscription.ID, subscription.Status)
	return subscription, nil
}

// DeleteAllSubscriptions zeroes every grant the user holds, then deletes all
// of the user's subscription records. Returns the number of subscriptions
// deleted; a user with none is success with count 0. Irreversible.
func (s *SubscriptionService) DeleteAllSubscriptions(userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	unlock := userLocks.lock(userID)
	defer unlock()

	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := database.ResetRemainingCredits(tx, database.CreditFilter{UserID: userID}); err != nil {
			return storeError(err)
		}
		count, err := database.DeleteUserSubscriptions(tx, userID)
		if err != nil {
			return storeError(err)
		}
		deleted = count
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Infof("Deleted all %d subscriptions for user %s", deleted, userID)
	return deleted, nil
}

// DeleteSelectedSubscriptions zeroes the grants minted by the given
// subscriptions, then deletes those subscription records. Returns the count
// actually deleted; ids that match nothing just don't add to it.
func (s *SubscriptionService) DeleteSelectedSubscriptions(userID string, subscriptionIDs []string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(subscriptionIDs) == 0 {
		return 0, fmt.Errorf("%w: subscription ids are required", ErrInvalidInput)
	}

	unlock := userLocks.lock(userID)
	defer unlock()

	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		filter := database.CreditFilter{
			UserID:          userID,
			SubscriptionIDs: subscriptionIDs,
		}
		if _, err := database.ResetRemainingCredits(tx, filter); err != nil {
			return storeError(err)
		}
		count, err := database.DeleteUserSubscriptionsByID(tx, userID, subscriptionIDs)
		if err != nil {
			return storeError(err)
		}
		deleted = count
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Infof("Deleted %d selected subscriptions for user %s", deleted, userID)
	return deleted, nil
}

// GetSubscription returns one subscription with its package preloaded; the
// package pointer is nil when the package row has since been deleted
func (s *SubscriptionService) GetSubscription(subscriptionID string) (*models.Subscription, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("%w: subscription id is required", ErrInvalidInput)
	}
	subscription, err := database.GetSubscriptionByID(s.db, subscriptionID)
	if err != nil {
		return nil, storeError(err)
	}
	return subscription, nil
}

// ListSubscriptions returns the user's subscriptions newest first
func (s *SubscriptionService) ListSubscriptions(userID string) ([]models.Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	subscriptions, err := database.GetUserSubscriptions(s.db, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return subscriptions, nil
}
