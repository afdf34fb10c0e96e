package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	tenancyrepo "github.com/leaseledger/leaseledger-backend/internal/data/repos/tenancy"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
)

// OverduePeriod is how long an active agreement may go without an accepted
// rent payment before IsRentOverdue reports true.
const OverduePeriod = 30 * 24 * time.Hour

type AgreementAggregateDeps struct {
	Base BaseDeps

	Agreements tenancyrepo.AgreementRepo
	Wallet     domainagg.Wallet
	Notifier   domainagg.AgreementNotifier
}

type agreementAggregate struct {
	deps AgreementAggregateDeps
}

// NewAgreementAggregate builds the rental agreement lifecycle engine. Every
// mutating operation runs as one transaction with the agreement row locked:
// load, validate, mutate, transfer, then emit the event post-commit.
func NewAgreementAggregate(deps AgreementAggregateDeps) domainagg.AgreementAggregate {
	deps.Base = deps.Base.withDefaults()
	return &agreementAggregate{deps: deps}
}

func (a *agreementAggregate) Contract() domainagg.Contract {
	return domainagg.AgreementAggregateContract
}

func (a *agreementAggregate) CreateAgreement(ctx context.Context, in domainagg.CreateAgreementInput) (domainagg.CreateAgreementResult, error) {
	const op = "Tenancy.Agreement.Create"
	var out domainagg.CreateAgreementResult

	if in.Landlord == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing landlord identity", nil)
	}
	if err := RequireValidTenant(op, in.Landlord, in.Tenant); err != nil {
		return out, err
	}
	if err := RequireValidTerms(op, in.RentAmount, in.SecurityDeposit, in.DurationDays); err != nil {
		return out, err
	}
	if a.deps.Agreements == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "agreement aggregate repos not configured", nil)
	}

	now := a.deps.Base.Now()
	record := &types.Agreement{
		LandlordID:      in.Landlord,
		TenantID:        in.Tenant,
		RentAmount:      in.RentAmount,
		SecurityDeposit: in.SecurityDeposit,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, in.DurationDays),
		IsActive:        true,
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		created, err := a.deps.Agreements.Create(dbc, record)
		if err != nil {
			return err
		}
		record = created
		return nil
	})
	if err != nil {
		return out, err
	}

	a.notifyCreated(record)
	out.Agreement = record
	return out, nil
}

func (a *agreementAggregate) PayRent(ctx context.Context, in domainagg.PayRentInput) (domainagg.PayRentResult, error) {
	const op = "Tenancy.Agreement.PayRent"
	var out domainagg.PayRentResult

	if in.Caller == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing caller identity", nil)
	}
	if a.deps.Agreements == nil || a.deps.Wallet == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "agreement aggregate deps not configured", nil)
	}

	now := a.deps.Base.Now()
	var paid types.RentPaidEvent

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		record, err := a.deps.Agreements.LockByID(dbc, in.AgreementID)
		if err != nil {
			return err
		}
		if err := RequireAgreementFound(op, record, in.AgreementID); err != nil {
			return err
		}
		if err := RequireActive(op, record); err != nil {
			return err
		}
		if err := RequireTenant(op, record, in.Caller); err != nil {
			return err
		}
		if err := RequireNotExpired(op, record, now); err != nil {
			return err
		}
		if err := RequireExactAmount(op, record, in.Amount); err != nil {
			return err
		}

		firstPayment := !record.DepositPaid
		updates := map[string]interface{}{
			"last_rent_payment": now,
			"updated_at":        now,
		}
		if firstPayment {
			updates["deposit_paid"] = true
		}
		if err := a.deps.Agreements.UpdateFields(dbc, record.ID, updates); err != nil {
			return err
		}

		// The deposit portion of a first payment stays in escrow; only the
		// rent is forwarded, whichever payment this is.
		if err := a.deps.Wallet.Transfer(dbc, record.LandlordID, record.RentAmount); err != nil {
			return transferFailed(op, err)
		}

		out.DepositCollected = firstPayment
		out.PaidAt = now
		paid = types.RentPaidEvent{
			AgreementID: record.ID,
			Tenant:      record.TenantID,
			AmountPaid:  in.Amount,
			Timestamp:   now,
		}
		return nil
	})
	if err != nil {
		return domainagg.PayRentResult{}, err
	}

	a.notifyRentPaid(paid)
	return out, nil
}

func (a *agreementAggregate) TerminateAgreement(ctx context.Context, in domainagg.TerminateAgreementInput) (domainagg.TerminateAgreementResult, error) {
	const op = "Tenancy.Agreement.Terminate"
	var out domainagg.TerminateAgreementResult

	if in.Caller == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing caller identity", nil)
	}
	if a.deps.Agreements == nil || a.deps.Wallet == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "agreement aggregate deps not configured", nil)
	}

	now := a.deps.Base.Now()
	var terminated types.AgreementTerminatedEvent

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		record, err := a.deps.Agreements.LockByID(dbc, in.AgreementID)
		if err != nil {
			return err
		}
		if err := RequireAgreementFound(op, record, in.AgreementID); err != nil {
			return err
		}
		if err := RequireActive(op, record); err != nil {
			return err
		}
		if err := RequireParty(op, record, in.Caller); err != nil {
			return err
		}

		if err := a.deps.Agreements.UpdateFields(dbc, record.ID, map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		}); err != nil {
			return err
		}

		// The held deposit is refunded in full whenever it was collected,
		// regardless of which party terminates.
		if record.DepositPaid {
			if err := a.deps.Wallet.Transfer(dbc, record.TenantID, record.SecurityDeposit); err != nil {
				return transferFailed(op, err)
			}
			out.DepositRefunded = true
		}

		out.TerminatedAt = now
		terminated = types.AgreementTerminatedEvent{
			AgreementID:  record.ID,
			TerminatedBy: in.Caller,
			Timestamp:    now,
		}
		return nil
	})
	if err != nil {
		return domainagg.TerminateAgreementResult{}, err
	}

	a.notifyTerminated(terminated)
	return out, nil
}

func (a *agreementAggregate) GetAgreement(ctx context.Context, id uint64) (*types.Agreement, error) {
	const op = "Tenancy.Agreement.Get"
	record, err := a.deps.Agreements.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, MapError(op, err)
	}
	if err := RequireAgreementFound(op, record, id); err != nil {
		return nil, err
	}
	return record, nil
}

// IsRentOverdue is computed lazily from the stored record, never pushed. A
// terminated agreement is never overdue. LastRentPayment holds the zero time
// until the first accepted payment, so an active agreement that never paid
// reports overdue from the start; that follows from the representation and is
// kept as-is.
func (a *agreementAggregate) IsRentOverdue(ctx context.Context, id uint64) (bool, error) {
	const op = "Tenancy.Agreement.IsRentOverdue"
	record, err := a.deps.Agreements.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return false, MapError(op, err)
	}
	if err := RequireAgreementFound(op, record, id); err != nil {
		return false, err
	}
	if !record.IsActive {
		return false, nil
	}
	return a.deps.Base.Now().Sub(record.LastRentPayment) > OverduePeriod, nil
}

func (a *agreementAggregate) ListLandlordAgreements(ctx context.Context, landlord uuid.UUID) ([]*types.Agreement, error) {
	const op = "Tenancy.Agreement.ListByLandlord"
	out, err := a.deps.Agreements.ListByLandlord(dbctx.Context{Ctx: ctx}, landlord)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (a *agreementAggregate) ListTenantAgreements(ctx context.Context, tenant uuid.UUID) ([]*types.Agreement, error) {
	const op = "Tenancy.Agreement.ListByTenant"
	out, err := a.deps.Agreements.ListByTenant(dbctx.Context{Ctx: ctx}, tenant)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func transferFailed(op string, err error) error {
	if _, ok := err.(*domainagg.Error); ok {
		return err
	}
	return domainagg.Wrap(domainagg.CodeTransferFailed, op, err)
}

func (a *agreementAggregate) notifyCreated(record *types.Agreement) {
	if a.deps.Notifier == nil || record == nil {
		return
	}
	a.deps.Notifier.AgreementCreated(types.AgreementCreatedEvent{
		AgreementID:     record.ID,
		Landlord:        record.LandlordID,
		Tenant:          record.TenantID,
		RentAmount:      record.RentAmount,
		SecurityDeposit: record.SecurityDeposit,
	})
}

func (a *agreementAggregate) notifyRentPaid(ev types.RentPaidEvent) {
	if a.deps.Notifier == nil || ev.AgreementID == 0 {
		return
	}
	a.deps.Notifier.RentPaid(ev)
}

func (a *agreementAggregate) notifyTerminated(ev types.AgreementTerminatedEvent) {
	if a.deps.Notifier == nil || ev.AgreementID == 0 {
		return
	}
	a.deps.Notifier.AgreementTerminated(ev)
}
