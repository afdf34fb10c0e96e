package tenancy

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

// AgreementRepo is the agreement store. Ids are allocated by the table's
// auto-increment counter (starting at 1, never reused); rows are never
// overwritten or removed, mutation goes through UpdateFields.
type AgreementRepo interface {
	Create(dbc dbctx.Context, agreement *types.Agreement) (*types.Agreement, error)
	GetByID(dbc dbctx.Context, id uint64) (*types.Agreement, error)
	LockByID(dbc dbctx.Context, id uint64) (*types.Agreement, error)
	Exists(dbc dbctx.Context, id uint64) (bool, error)
	ListByLandlord(dbc dbctx.Context, landlord uuid.UUID) ([]*types.Agreement, error)
	ListByTenant(dbc dbctx.Context, tenant uuid.UUID) ([]*types.Agreement, error)
	UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) error
}

type agreementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgreementRepo(db *gorm.DB, baseLog *logger.Logger) AgreementRepo {
	return &agreementRepo{
		db:  db,
		log: baseLog.With("repo", "AgreementRepo"),
	}
}

func (r *agreementRepo) base(dbc dbctx.Context) *gorm.DB {
	return dbc.Session(r.db)
}

func (r *agreementRepo) Create(dbc dbctx.Context, agreement *types.Agreement) (*types.Agreement, error) {
	if agreement == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(agreement).Error; err != nil {
		return nil, err
	}
	return agreement, nil
}

func (r *agreementRepo) GetByID(dbc dbctx.Context, id uint64) (*types.Agreement, error) {
	return r.getByID(dbc, id, false)
}

// LockByID loads the agreement under a FOR UPDATE row lock so no two
// mutating operations on the same agreement interleave.
func (r *agreementRepo) LockByID(dbc dbctx.Context, id uint64) (*types.Agreement, error) {
	return r.getByID(dbc, id, true)
}

func (r *agreementRepo) getByID(dbc dbctx.Context, id uint64, lock bool) (*types.Agreement, error) {
	if id == 0 {
		return nil, nil
	}
	q := r.base(dbc)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out types.Agreement
	if err := q.Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *agreementRepo) Exists(dbc dbctx.Context, id uint64) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var count int64
	if err := r.base(dbc).
		Model(&types.Agreement{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *agreementRepo) ListByLandlord(dbc dbctx.Context, landlord uuid.UUID) ([]*types.Agreement, error) {
	return r.listBy(dbc, "landlord_id = ?", landlord)
}

func (r *agreementRepo) ListByTenant(dbc dbctx.Context, tenant uuid.UUID) ([]*types.Agreement, error) {
	return r.listBy(dbc, "tenant_id = ?", tenant)
}

func (r *agreementRepo) listBy(dbc dbctx.Context, cond string, identity uuid.UUID) ([]*types.Agreement, error) {
	out := []*types.Agreement{}
	if identity == uuid.Nil {
		return out, nil
	}
	if err := r.base(dbc).
		Where(cond, identity).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *agreementRepo) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return r.base(dbc).
		Model(&types.Agreement{}).
		Where("id = ?", id).
		Updates(updates).Error
}
