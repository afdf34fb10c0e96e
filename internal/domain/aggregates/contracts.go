package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
)

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means aggregate write methods start/manage atomic DB transactions internally.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	Notes            string
}

// Aggregate is the common marker for all aggregate contracts.
type Aggregate interface {
	Contract() Contract
}

// AgreementAggregateContract: every mutating operation is one atomic step
// (load, validate, mutate, transfer, emit) with the agreement row locked for
// the duration. A caller never observes a record mid-transition.
var AgreementAggregateContract = Contract{
	Name:             "Tenancy.Agreement",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	Notes:            "value transfer runs inside the operation transaction; events emit post-commit in mutation order",
}

type CreateAgreementInput struct {
	Landlord        uuid.UUID
	Tenant          uuid.UUID
	RentAmount      uint64
	SecurityDeposit uint64
	DurationDays    int
}

type CreateAgreementResult struct {
	Agreement *types.Agreement
}

type PayRentInput struct {
	Caller      uuid.UUID
	AgreementID uint64
	Amount      uint64
}

type PayRentResult struct {
	DepositCollected bool
	PaidAt           time.Time
}

type TerminateAgreementInput struct {
	Caller      uuid.UUID
	AgreementID uint64
}

type TerminateAgreementResult struct {
	DepositRefunded bool
	TerminatedAt    time.Time
}

// AgreementAggregate is the rental agreement lifecycle engine.
type AgreementAggregate interface {
	Aggregate

	CreateAgreement(ctx context.Context, in CreateAgreementInput) (CreateAgreementResult, error)
	PayRent(ctx context.Context, in PayRentInput) (PayRentResult, error)
	TerminateAgreement(ctx context.Context, in TerminateAgreementInput) (TerminateAgreementResult, error)

	GetAgreement(ctx context.Context, id uint64) (*types.Agreement, error)
	IsRentOverdue(ctx context.Context, id uint64) (bool, error)
	ListLandlordAgreements(ctx context.Context, landlord uuid.UUID) ([]*types.Agreement, error)
	ListTenantAgreements(ctx context.Context, tenant uuid.UUID) ([]*types.Agreement, error)
}
