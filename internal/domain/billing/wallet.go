package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WalletAccount tracks the settled balance for one principal, in the smallest
// currency unit.
type WalletAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Balance   uint64    `gorm:"not null;default:0;column:balance" json:"balance"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WalletAccount) TableName() string { return "wallet_account" }

const (
	EntryCredit = "CREDIT"
	EntryDebit  = "DEBIT"
)

// LedgerEntry is an append-only audit row for every wallet movement.
type LedgerEntry struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID uuid.UUID      `gorm:"type:uuid;not null;index;column:account_id" json:"account_id"`
	Amount    uint64         `gorm:"not null;column:amount" json:"amount"`
	EntryType string         `gorm:"not null;column:entry_type" json:"entry_type"`
	// Balance is the account balance after this entry was applied.
	Balance   uint64         `gorm:"not null;column:balance" json:"balance"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (LedgerEntry) TableName() string { return "ledger_entry" }
