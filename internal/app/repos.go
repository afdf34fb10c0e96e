package app

import (
	"gorm.io/gorm"

	authrepo "github.com/leaseledger/leaseledger-backend/internal/data/repos/auth"
	tenancyrepo "github.com/leaseledger/leaseledger-backend/internal/data/repos/tenancy"
	walletrepo "github.com/leaseledger/leaseledger-backend/internal/data/repos/wallet"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

type Repos struct {
	User      authrepo.UserRepo
	UserToken authrepo.UserTokenRepo
	Agreement tenancyrepo.AgreementRepo
	Account   walletrepo.AccountRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      authrepo.NewUserRepo(db, log),
		UserToken: authrepo.NewUserTokenRepo(db, log),
		Agreement: tenancyrepo.NewAgreementRepo(db, log),
		Account:   walletrepo.NewAccountRepo(db, log),
	}
}
