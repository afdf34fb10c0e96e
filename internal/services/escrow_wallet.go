package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	walletrepo "github.com/leaseledger/leaseledger-backend/internal/data/repos/wallet"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
	"github.com/leaseledger/leaseledger-backend/internal/observability"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

// WalletService credits principals' escrow-held accounts and keeps the
// append-only ledger. It implements the lifecycle engine's transfer port:
// when the engine passes a transaction, the credit commits or rolls back with
// the agreement mutation.
type WalletService interface {
	domainagg.Wallet

	GetBalance(ctx context.Context, userID uuid.UUID) (uint64, error)
	ListEntries(ctx context.Context, userID uuid.UUID) ([]*types.LedgerEntry, error)
}

type walletService struct {
	log      *logger.Logger
	accounts walletrepo.AccountRepo
	metrics  *observability.Metrics
}

func NewWalletService(log *logger.Logger, accounts walletrepo.AccountRepo, metrics *observability.Metrics) WalletService {
	return &walletService{
		log:      log.With("service", "WalletService"),
		accounts: accounts,
		metrics:  metrics,
	}
}

func (s *walletService) Transfer(dbc dbctx.Context, to uuid.UUID, amount uint64) error {
	if to == uuid.Nil {
		s.observe("rejected", amount)
		return fmt.Errorf("transfer target required")
	}
	if amount == 0 {
		return nil
	}

	acct, err := s.accounts.EnsureAccount(dbc, to)
	if err != nil {
		s.observe("failed", amount)
		return fmt.Errorf("ensure account %s: %w", to, err)
	}
	if acct == nil {
		s.observe("failed", amount)
		return fmt.Errorf("account %s unavailable", to)
	}

	if acct.Balance > math.MaxUint64-amount {
		s.observe("rejected", amount)
		return fmt.Errorf("credit of %d would overflow balance of account %s", amount, to)
	}
	newBalance := acct.Balance + amount
	if err := s.accounts.SetBalance(dbc, to, newBalance); err != nil {
		s.observe("failed", amount)
		return fmt.Errorf("credit account %s: %w", to, err)
	}

	meta, _ := json.Marshal(map[string]any{"source": "agreement"})
	if _, err := s.accounts.AppendEntry(dbc, &types.LedgerEntry{
		AccountID: to,
		Amount:    amount,
		EntryType: types.EntryCredit,
		Balance:   newBalance,
		Metadata:  datatypes.JSON(meta),
	}); err != nil {
		s.observe("failed", amount)
		return fmt.Errorf("append ledger entry: %w", err)
	}

	s.observe("success", amount)
	s.log.Debug("credited account", "account", to, "amount", amount, "balance", newBalance)
	return nil
}

func (s *walletService) GetBalance(ctx context.Context, userID uuid.UUID) (uint64, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("user id required")
	}
	acct, err := s.accounts.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, err
	}
	if acct == nil {
		return 0, nil
	}
	return acct.Balance, nil
}

func (s *walletService) ListEntries(ctx context.Context, userID uuid.UUID) ([]*types.LedgerEntry, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	return s.accounts.ListEntries(dbctx.Context{Ctx: ctx}, userID)
}

func (s *walletService) observe(status string, amount uint64) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveTransfer(status, amount)
}
