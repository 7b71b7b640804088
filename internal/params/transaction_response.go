package params

import (
	"time"

	"go-bills-wallet/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	ID            uuid.UUID                `json:"id"`
	Type          entity.TransactionType   `json:"type"`
	Amount        decimal.Decimal          `json:"amount"`
	Status        entity.TransactionStatus `json:"status"`
	Reference     string                   `json:"reference"`
	Description   *string                  `json:"description,omitempty"`
	BalanceBefore decimal.Decimal          `json:"balance_before"`
	BalanceAfter  decimal.Decimal          `json:"balance_after"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

type TransactionHistoryResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	Limit        int                    `json:"limit"`
	TotalPages   int                    `json:"total_pages"`
}
