package aggregates

import (
	"github.com/google/uuid"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
)

// Wallet is the value-transfer primitive the lifecycle engine instructs.
// Transfer must be all-or-nothing; when the engine passes a transaction in
// dbc the movement commits or rolls back with the agreement mutation.
type Wallet interface {
	Transfer(dbc dbctx.Context, to uuid.UUID, amount uint64) error
}

// AgreementNotifier receives ledger events after the corresponding state
// mutation has committed, in mutation order. Delivery transport is not the
// engine's concern.
type AgreementNotifier interface {
	AgreementCreated(ev types.AgreementCreatedEvent)
	RentPaid(ev types.RentPaidEvent)
	AgreementTerminated(ev types.AgreementTerminatedEvent)
}
