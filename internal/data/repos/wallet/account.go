package wallet

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

type AccountRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.WalletAccount, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.WalletAccount, error)
	EnsureAccount(dbc dbctx.Context, id uuid.UUID) (*types.WalletAccount, error)
	SetBalance(dbc dbctx.Context, id uuid.UUID, balance uint64) error
	AppendEntry(dbc dbctx.Context, entry *types.LedgerEntry) (*types.LedgerEntry, error)
	ListEntries(dbc dbctx.Context, accountID uuid.UUID) ([]*types.LedgerEntry, error)
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{
		db:  db,
		log: baseLog.With("repo", "WalletAccountRepo"),
	}
}

func (r *accountRepo) base(dbc dbctx.Context) *gorm.DB {
	return dbc.Session(r.db)
}

func (r *accountRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.WalletAccount, error) {
	return r.getByID(dbc, id, false)
}

func (r *accountRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.WalletAccount, error) {
	return r.getByID(dbc, id, true)
}

func (r *accountRepo) getByID(dbc dbctx.Context, id uuid.UUID, lock bool) (*types.WalletAccount, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	q := r.base(dbc)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out types.WalletAccount
	if err := q.Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// EnsureAccount creates the account row with a zero balance when it does not
// exist yet. Safe under concurrent callers via ON CONFLICT DO NOTHING.
func (r *accountRepo) EnsureAccount(dbc dbctx.Context, id uuid.UUID) (*types.WalletAccount, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	acct := &types.WalletAccount{ID: id}
	if err := r.base(dbc).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(acct).Error; err != nil {
		return nil, err
	}
	return r.getByID(dbc, id, true)
}

func (r *accountRepo) SetBalance(dbc dbctx.Context, id uuid.UUID, balance uint64) error {
	if id == uuid.Nil {
		return nil
	}
	return r.base(dbc).
		Model(&types.WalletAccount{}).
		Where("id = ?", id).
		Update("balance", balance).Error
}

func (r *accountRepo) AppendEntry(dbc dbctx.Context, entry *types.LedgerEntry) (*types.LedgerEntry, error) {
	if entry == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *accountRepo) ListEntries(dbc dbctx.Context, accountID uuid.UUID) ([]*types.LedgerEntry, error) {
	out := []*types.LedgerEntry{}
	if accountID == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
