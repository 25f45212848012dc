package services

import (
	"testing"
	"time"

	"subscription-api/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintGrantValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")
	pkg := createTestPackage(t, db, "Package A", 10, 30, 100)
	topUp := createTestCreditPackage(t, db, "Top Up", 200, 2)

	service := NewCreditService()

	_, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.MintGrant(user.ID, GrantSource{}, 10, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID, CreditPackageID: topUp.ID}, 10, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.MintGrant(user.ID, GrantSource{PackageID: "missing"}, 10, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	// Zero-credit grants are a valid audit record
	grant, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, grant.Credits)
	assert.Equal(t, 0, grant.Remaining)
}

func TestQueryBalanceScopedByPackage(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")
	pkgA := createTestPackage(t, db, "Package A", 10, 30, 100)
	pkgB := createTestPackage(t, db, "Package B", 20, 60, 50)

	service := NewCreditService()
	_, err := service.MintGrant(user.ID, GrantSource{PackageID: pkgA.ID}, 100, nil)
	require.NoError(t, err)
	_, err = service.MintGrant(user.ID, GrantSource{PackageID: pkgB.ID}, 50, nil)
	require.NoError(t, err)

	total, err := service.QueryBalance(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 150, total)

	scoped, err := service.QueryBalance(user.ID, pkgA.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, scoped)

	other, err := service.QueryBalance("someone-else", "")
	require.NoError(t, err)
	assert.Equal(t, 0, other)
}

func TestResetRemainingReturnsAffectedCount(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")
	pkg := createTestPackage(t, db, "Package A", 10, 30, 100)

	service := NewCreditService()
	_, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 100, nil)
	require.NoError(t, err)
	_, err = service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 0, nil)
	require.NoError(t, err)

	// Only the grant that still holds a balance counts
	count, err := service.ResetRemaining(database.CreditFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Nothing left to reset: success with count 0
	count, err = service.ResetRemaining(database.CreditFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = service.ResetRemaining(database.CreditFilter{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdjustGrantOnlyLowersRemaining(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")
	pkg := createTestPackage(t, db, "Package A", 10, 30, 100)

	service := NewCreditService()
	grant, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 100, nil)
	require.NoError(t, err)

	lower := 70
	updated, err := service.AdjustGrant(grant.ID, &lower, nil)
	require.NoError(t, err)
	assert.Equal(t, 70, updated.Remaining)
	assert.Equal(t, 100, updated.Credits)

	raise := 90
	_, err = service.AdjustGrant(grant.ID, &raise, nil)
	assert.ErrorIs(t, err, ErrConflict)

	negative := -5
	_, err = service.AdjustGrant(grant.ID, &negative, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AdjustGrant("missing", &lower, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	// Expiry can move without touching the balance
	expiry := time.Now().AddDate(0, 0, 7)
	updated, err = service.AdjustGrant(grant.ID, nil, &expiry)
	require.NoError(t, err)
	assert.Equal(t, 70, updated.Remaining)
	require.NotNil(t, updated.ExpiryDate)
}

func TestConsumeSpendsSoonestExpiryFirst(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")
	pkg := createTestPackage(t, db, "Package A", 10, 30, 100)

	service := NewCreditService()

	soon := time.Now().AddDate(0, 0, 7)
	later := time.Now().AddDate(0, 0, 60)
	first, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 30, &soon)
	require.NoError(t, err)
	second, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 50, &later)
	require.NoError(t, err)

	require.NoError(t, service.Consume(user.ID, 40))

	got, err := service.GetGrant(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining) // drained first

	got, err = service.GetGrant(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Remaining)
}

func TestConsumeInsufficientBalanceChangesNothing(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")
	pkg := createTestPackage(t, db, "Package A", 10, 30, 100)

	service := NewCreditService()
	grant, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 30, nil)
	require.NoError(t, err)

	err = service.Consume(user.ID, 50)
	assert.ErrorIs(t, err, ErrConflict)

	// Atomic: the partial spend rolled back
	got, err := service.GetGrant(grant.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Remaining)

	err = service.Consume(user.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConsumeSkipsExpiredGrants(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")
	pkg := createTestPackage(t, db, "Package A", 10, 30, 100)

	service := NewCreditService()

	expired := time.Now().AddDate(0, 0, -1)
	_, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 100, &expired)
	require.NoError(t, err)
	fresh, err := service.MintGrant(user.ID, GrantSource{PackageID: pkg.ID}, 20, nil)
	require.NoError(t, err)

	// Only the unexpired 20 are spendable
	err = service.Consume(user.ID, 50)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, service.Consume(user.ID, 20))
	got, err := service.GetGrant(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining)
}
