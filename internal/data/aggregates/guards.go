package aggregates

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
)

// Agreement precondition guards. Each guard is a standalone validation step
// returning a tagged domain error, run before any mutation; a guard failure
// means zero side effects for the whole operation.

// RequireAgreementFound rejects unknown ids (id 0 included, it is reserved).
func RequireAgreementFound(op string, a *types.Agreement, id uint64) error {
	if a == nil || a.ID == 0 {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("agreement not found: %d", id), nil)
	}
	return nil
}

// RequireActive rejects operations on terminated agreements.
func RequireActive(op string, a *types.Agreement) error {
	if !a.IsActive {
		return domainagg.NewError(domainagg.CodeAgreementInactive, op, fmt.Sprintf("agreement %d is no longer active", a.ID), nil)
	}
	return nil
}

// RequireTenant authorizes the caller as the agreement's tenant.
func RequireTenant(op string, a *types.Agreement, caller uuid.UUID) error {
	if caller != a.TenantID {
		return domainagg.NewError(domainagg.CodeUnauthorized, op, "only the tenant can pay rent", nil)
	}
	return nil
}

// RequireParty authorizes the caller as either party to the agreement.
func RequireParty(op string, a *types.Agreement, caller uuid.UUID) error {
	if caller != a.LandlordID && caller != a.TenantID {
		return domainagg.NewError(domainagg.CodeUnauthorized, op, "caller is not a party to this agreement", nil)
	}
	return nil
}

// RequireNotExpired rejects payments after the agreement's end date.
func RequireNotExpired(op string, a *types.Agreement, now time.Time) error {
	if now.After(a.EndDate) {
		return domainagg.NewError(domainagg.CodeAgreementExpired, op, fmt.Sprintf("agreement %d expired at %s", a.ID, a.EndDate.Format(time.RFC3339)), nil)
	}
	return nil
}

// RequireExactAmount enforces the payment amount rule: rent plus the security
// deposit until the deposit is collected, plain rent afterwards. Exact
// equality only; over- and underpayment are both rejected.
func RequireExactAmount(op string, a *types.Agreement, amount uint64) error {
	required := a.RequiredPayment()
	if amount != required {
		return domainagg.NewError(domainagg.CodeIncorrectAmount, op, fmt.Sprintf("expected payment of %d, got %d", required, amount), nil)
	}
	return nil
}

// RequireValidTenant validates the counterparty on creation.
func RequireValidTenant(op string, landlord, tenant uuid.UUID) error {
	if tenant == uuid.Nil {
		return domainagg.NewError(domainagg.CodeInvalidTenant, op, "tenant identity is required", nil)
	}
	if tenant == landlord {
		return domainagg.NewError(domainagg.CodeInvalidTenant, op, "landlord cannot be their own tenant", nil)
	}
	return nil
}

// RequireValidTerms validates amounts and duration on creation.
func RequireValidTerms(op string, rentAmount, securityDeposit uint64, durationDays int) error {
	if rentAmount == 0 {
		return domainagg.NewError(domainagg.CodeInvalidTerms, op, "rent amount must be greater than zero", nil)
	}
	if securityDeposit == 0 {
		return domainagg.NewError(domainagg.CodeInvalidTerms, op, "security deposit must be greater than zero", nil)
	}
	if durationDays <= 0 {
		return domainagg.NewError(domainagg.CodeInvalidTerms, op, "duration must be at least one day", nil)
	}
	// The first payment is rent+deposit in one uint64; terms whose sum wraps
	// would make RequiredPayment come out tiny or zero.
	if rentAmount > math.MaxUint64-securityDeposit {
		return domainagg.NewError(domainagg.CodeInvalidTerms, op, "rent plus security deposit exceeds the representable amount", nil)
	}
	return nil
}
