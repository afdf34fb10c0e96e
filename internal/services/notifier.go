package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
	"github.com/leaseledger/leaseledger-backend/internal/realtime"
)

// agreementNotifier delivers agreement lifecycle events to both parties'
// channels and to the per-agreement channel. It is invoked post-commit, once
// per mutation, in mutation order.
type agreementNotifier struct {
	emit SSEEmitter
}

func NewAgreementNotifier(emit SSEEmitter) domainagg.AgreementNotifier {
	return &agreementNotifier{emit: emit}
}

func (n *agreementNotifier) AgreementCreated(ev types.AgreementCreatedEvent) {
	n.fanOut(realtime.SSEMessage{
		Event: realtime.SSEEventAgreementCreated,
		Data:  ev,
	}, ev.AgreementID, ev.Landlord, ev.Tenant)
}

func (n *agreementNotifier) RentPaid(ev types.RentPaidEvent) {
	n.fanOut(realtime.SSEMessage{
		Event: realtime.SSEEventRentPaid,
		Data:  ev,
	}, ev.AgreementID, ev.Tenant)
}

func (n *agreementNotifier) AgreementTerminated(ev types.AgreementTerminatedEvent) {
	n.fanOut(realtime.SSEMessage{
		Event: realtime.SSEEventAgreementTerminated,
		Data:  ev,
	}, ev.AgreementID, ev.TerminatedBy)
}

func (n *agreementNotifier) fanOut(msg realtime.SSEMessage, agreementID uint64, userIDs ...uuid.UUID) {
	if n == nil || n.emit == nil {
		return
	}
	ctx := context.Background()

	msg.Channel = realtime.AgreementChannel(agreementID)
	n.emit.Emit(ctx, msg)

	seen := map[uuid.UUID]bool{}
	for _, id := range userIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		per := msg
		per.Channel = realtime.UserChannel(id)
		n.emit.Emit(ctx, per)
	}
}
