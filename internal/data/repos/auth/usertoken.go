package auth

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserToken, error)
	GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error)
	FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	FullDeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (utr *userTokenRepo) base(dbc dbctx.Context) *gorm.DB {
	return dbc.Session(utr.db)
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}
	if err := utr.base(dbc).Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func (utr *userTokenRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserToken, error) {
	var results []*types.UserToken
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := utr.base(dbc).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error) {
	var results []*types.UserToken
	if len(accessTokens) == 0 {
		return results, nil
	}
	if err := utr.base(dbc).
		Where("access_token IN ?", accessTokens).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	var results []*types.UserToken
	if len(refreshTokens) == 0 {
		return results, nil
	}
	if err := utr.base(dbc).
		Where("refresh_token IN ?", refreshTokens).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	if len(tokenIDs) == 0 {
		return nil
	}
	return utr.base(dbc).
		Unscoped().
		Where("id IN ?", tokenIDs).
		Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) FullDeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	return utr.base(dbc).
		Unscoped().
		Where("user_id IN ?", userIDs).
		Delete(&types.UserToken{}).Error
}
