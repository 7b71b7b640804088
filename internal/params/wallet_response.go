package params

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BalanceResponse struct {
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Timestamp time.Time       `json:"timestamp"`
}

type WalletResponse struct {
	ID              uuid.UUID                 `json:"id"`
	UserID          uuid.UUID                 `json:"user_id"`
	Balance         decimal.Decimal           `json:"balance"`
	Currency        string                    `json:"currency"`
	PinSet          bool                      `json:"pin_set"`
	VirtualAccounts []*VirtualAccountResponse `json:"virtual_accounts,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

type VirtualAccountResponse struct {
	ID            uuid.UUID `json:"id"`
	BankName      string    `json:"bank_name"`
	BankCode      string    `json:"bank_code"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Provider      string    `json:"provider"`
	CreatedAt     time.Time `json:"created_at"`
}

type BankResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
