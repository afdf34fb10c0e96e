package tenancy

import (
	"time"

	"github.com/google/uuid"
)

// Ledger event names, delivered to audit/notification consumers in the order
// the corresponding state mutation completed.
const (
	EventAgreementCreated    = "AgreementCreated"
	EventRentPaid            = "RentPaid"
	EventAgreementTerminated = "AgreementTerminated"
)

type AgreementCreatedEvent struct {
	AgreementID     uint64    `json:"agreement_id"`
	Landlord        uuid.UUID `json:"landlord"`
	Tenant          uuid.UUID `json:"tenant"`
	RentAmount      uint64    `json:"rent_amount"`
	SecurityDeposit uint64    `json:"security_deposit"`
}

type RentPaidEvent struct {
	AgreementID uint64    `json:"agreement_id"`
	Tenant      uuid.UUID `json:"tenant"`
	AmountPaid  uint64    `json:"amount_paid"`
	Timestamp   time.Time `json:"timestamp"`
}

type AgreementTerminatedEvent struct {
	AgreementID  uint64    `json:"agreement_id"`
	TerminatedBy uuid.UUID `json:"terminated_by"`
	Timestamp    time.Time `json:"timestamp"`
}
