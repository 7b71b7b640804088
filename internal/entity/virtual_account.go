package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VirtualAccount is a bank-issued account number routing incoming transfers
// to a wallet. Immutable after creation.
type VirtualAccount struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	WalletID      uuid.UUID `gorm:"type:uuid;not null;index" json:"wallet_id"`
	BankName      string    `gorm:"type:varchar(100);not null" json:"bank_name"`
	BankCode      string    `gorm:"type:varchar(10);not null" json:"bank_code"`
	AccountNumber string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"account_number"`
	AccountName   string    `gorm:"type:varchar(255);not null" json:"account_name"`
	Provider      string    `gorm:"type:varchar(50);not null" json:"provider"`
	Reference     string    `gorm:"type:varchar(100);not null" json:"reference"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Wallet Wallet `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE" json:"wallet,omitempty"`
}

func (v *VirtualAccount) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (VirtualAccount) TableName() string {
	return "virtual_accounts"
}
