package domain

import (
	"github.com/leaseledger/leaseledger-backend/internal/domain/auth"
	"github.com/leaseledger/leaseledger-backend/internal/domain/billing"
	"github.com/leaseledger/leaseledger-backend/internal/domain/tenancy"
	"github.com/leaseledger/leaseledger-backend/internal/domain/user"
)

const (
	EventAgreementCreated    = tenancy.EventAgreementCreated
	EventRentPaid            = tenancy.EventRentPaid
	EventAgreementTerminated = tenancy.EventAgreementTerminated

	EntryCredit = billing.EntryCredit
	EntryDebit  = billing.EntryDebit
)

type User = user.User
type UserToken = auth.UserToken

type Agreement = tenancy.Agreement
type AgreementCreatedEvent = tenancy.AgreementCreatedEvent
type RentPaidEvent = tenancy.RentPaidEvent
type AgreementTerminatedEvent = tenancy.AgreementTerminatedEvent

type WalletAccount = billing.WalletAccount
type LedgerEntry = billing.LedgerEntry
