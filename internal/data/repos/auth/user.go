package auth

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error)
	EmailExists(dbc dbctx.Context, userEmail string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.User
	if len(userEmails) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("email IN ?", userEmails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, userEmail string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("email = ?", userEmail).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
