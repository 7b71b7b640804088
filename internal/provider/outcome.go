package provider

import (
	"context"
	"strings"
)

// Outcome is the canonical tri-state every vendor response is normalized
// into before the settlement engine sees it. Vendor-specific success
// spellings stay inside this package.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeProcessing Outcome = "processing"
	OutcomeFailed     Outcome = "failed"
)

// PurchaseResult is what a vendor purchase call yields after normalization.
// Raw carries the undoctored response body for transaction metadata.
type PurchaseResult struct {
	Outcome Outcome                `json:"outcome"`
	Message string                 `json:"message"`
	Raw     map[string]interface{} `json:"raw,omitempty"`
}

// PurchaseCall invokes one vendor purchase with the transaction reference as
// the vendor-side idempotency token.
type PurchaseCall func(ctx context.Context, reference string) (*PurchaseResult, error)

// successMarkers covers the spellings the three vendors use for a completed
// purchase: "success", "successful" and the capitalized Topupmate variant.
var successMarkers = map[string]bool{
	"success":    true,
	"successful": true,
}

// Classify maps a decoded vendor response onto the shared outcome. It reads
// both "status" and "Status" keys and falls back to "message"/"msg" for the
// failure reason.
func Classify(raw map[string]interface{}) *PurchaseResult {
	status := stringField(raw, "status")
	if status == "" {
		status = stringField(raw, "Status")
	}

	result := &PurchaseResult{Raw: raw}

	switch {
	case successMarkers[strings.ToLower(status)]:
		result.Outcome = OutcomeSuccess
		result.Message = stringField(raw, "message")
	case strings.EqualFold(status, "processing"):
		result.Outcome = OutcomeProcessing
		result.Message = stringField(raw, "message")
	default:
		result.Outcome = OutcomeFailed
		result.Message = failureMessage(raw)
	}

	return result
}

func failureMessage(raw map[string]interface{}) string {
	if msg := stringField(raw, "message"); msg != "" {
		return msg
	}
	if msg := stringField(raw, "msg"); msg != "" {
		return msg
	}
	return "provider error"
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
