package params

import "go-bills-wallet/internal/entity"

// PurchaseResponse mirrors the settlement engine's tri-state outcome. Data
// carries the transaction metadata; Duplicate marks an idempotent replay of
// an earlier request.
type PurchaseResponse struct {
	Status    entity.TransactionStatus `json:"status"`
	Reference string                   `json:"reference"`
	Data      interface{}              `json:"data,omitempty"`
	Duplicate bool                     `json:"duplicate,omitempty"`
}
