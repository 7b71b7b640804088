package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is one balance-affecting event. Reference is the idempotency
// key: globally unique, supplied by the client or the inbound webhook.
// BalanceBefore/BalanceAfter snapshot the wallet around the mutation so that
// balance_after - balance_before == +-amount holds for every committed row.
type Transaction struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	WalletID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Type          TransactionType   `gorm:"type:varchar(20);not null;check:type IN ('PURCHASE','DEPOSIT')" json:"type"`
	Amount        decimal.Decimal   `gorm:"type:decimal(15,2);not null;check:amount > 0" json:"amount"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';check:status IN ('PENDING','SUCCESS','FAILED')" json:"status"`
	Reference     string            `gorm:"type:varchar(100);not null;uniqueIndex" json:"reference"`
	Description   string            `gorm:"type:text" json:"description"`
	BalanceBefore decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"balance_after"`
	Metadata      datatypes.JSON    `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_transactions_created_at,sort:desc" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Wallet Wallet `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE" json:"wallet,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Transaction) TableName() string {
	return "transactions"
}
