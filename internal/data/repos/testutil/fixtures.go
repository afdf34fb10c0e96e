package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAgreement(tb testing.TB, ctx context.Context, tx *gorm.DB, landlord, tenant uuid.UUID) *types.Agreement {
	tb.Helper()
	now := time.Now().UTC()
	a := &types.Agreement{
		LandlordID:      landlord,
		TenantID:        tenant,
		RentAmount:      100,
		SecurityDeposit: 50,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, 30),
		IsActive:        true,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed agreement: %v", err)
	}
	return a
}

func SeedWalletAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, id uuid.UUID, balance uint64) *types.WalletAccount {
	tb.Helper()
	acct := &types.WalletAccount{ID: id, Balance: balance}
	if err := tx.WithContext(ctx).Create(acct).Error; err != nil {
		tb.Fatalf("seed wallet account: %v", err)
	}
	return acct
}
