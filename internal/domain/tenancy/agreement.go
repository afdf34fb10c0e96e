package tenancy

import (
	"time"

	"github.com/google/uuid"
)

// Agreement is a rental relationship between a landlord and a tenant.
// IDs are allocated by the store in insertion order starting at 1; id 0 means
// "no such agreement". Rows are never deleted, terminated agreements stay
// queryable for audit.
type Agreement struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	LandlordID      uuid.UUID `gorm:"type:uuid;not null;index;column:landlord_id" json:"landlord_id"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	RentAmount      uint64    `gorm:"not null;column:rent_amount" json:"rent_amount"`
	SecurityDeposit uint64    `gorm:"not null;column:security_deposit" json:"security_deposit"`
	StartDate       time.Time `gorm:"not null;column:start_date" json:"start_date"`
	EndDate         time.Time `gorm:"not null;column:end_date" json:"end_date"`
	IsActive        bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	DepositPaid     bool      `gorm:"not null;default:false;column:deposit_paid" json:"deposit_paid"`
	// LastRentPayment stays at the zero time until the first accepted payment.
	// Overdue checks subtract it directly, so a never-paid active agreement
	// reports overdue from the start. That representation is intentional.
	LastRentPayment time.Time `gorm:"column:last_rent_payment" json:"last_rent_payment"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Agreement) TableName() string { return "agreement" }

// RequiredPayment is the exact amount a tenant must pay in the agreement's
// current deposit state: rent plus the one-time security deposit until the
// deposit has been collected, plain rent afterwards.
func (a *Agreement) RequiredPayment() uint64 {
	if a.DepositPaid {
		return a.RentAmount
	}
	return a.RentAmount + a.SecurityDeposit
}
