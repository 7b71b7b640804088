package params

// SquadWebhookPayload is the inbound payment notification. Amount arrives in
// kobo; Squad capitalizes the envelope keys.
type SquadWebhookPayload struct {
	Event string           `json:"Event"`
	Body  SquadWebhookBody `json:"Body"`
}

type SquadWebhookBody struct {
	Amount             int64  `json:"amount"`
	TransactionRef     string `json:"transaction_ref"`
	MerchantCustomerID string `json:"merchant_customer_id"`
	BankCode           string `json:"bank_code"`
}
