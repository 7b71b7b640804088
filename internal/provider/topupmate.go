package provider

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// TopupmateClient fulfills PIN-based voucher purchases (exam, recharge and
// data PINs). Topupmate reports success as {"Status": "successful"}; the
// adapter normalizes that before the engine sees it.
type TopupmateClient struct {
	*client
	apiKey string
}

func NewTopupmateClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *TopupmateClient {
	return &TopupmateClient{
		client: newClient(baseURL, timeout, logger),
		apiKey: apiKey,
	}
}

func (t *TopupmateClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Token " + t.apiKey,
	}
}

type ExamPinPurchaseRequest struct {
	Provider string `json:"provider"`
	Quantity int    `json:"quantity"`
}

func (t *TopupmateClient) PurchaseExamPin(ctx context.Context, req ExamPinPurchaseRequest, reference string) (*PurchaseResult, error) {
	raw, err := t.postJSON(ctx, "/exampin/", t.headers(), map[string]interface{}{
		"provider": req.Provider,
		"quantity": req.Quantity,
		"ref":      reference,
	})
	if err != nil {
		return nil, err
	}
	return Classify(raw), nil
}

type RechargePinPurchaseRequest struct {
	Network      string `json:"network"`
	Quantity     int    `json:"quantity"`
	Plan         string `json:"plan"`
	BusinessName string `json:"businessname"`
}

func (t *TopupmateClient) PurchaseRechargePin(ctx context.Context, req RechargePinPurchaseRequest, reference string) (*PurchaseResult, error) {
	raw, err := t.postJSON(ctx, "/rechargepin/", t.headers(), map[string]interface{}{
		"network":      req.Network,
		"quantity":     req.Quantity,
		"plan":         req.Plan,
		"businessname": req.BusinessName,
		"ref":          reference,
	})
	if err != nil {
		return nil, err
	}
	return Classify(raw), nil
}

type DataPinPurchaseRequest struct {
	Network      string `json:"network"`
	Quantity     int    `json:"quantity"`
	DataPlan     string `json:"data_plan"`
	BusinessName string `json:"businessname"`
}

func (t *TopupmateClient) PurchaseDataPin(ctx context.Context, req DataPinPurchaseRequest, reference string) (*PurchaseResult, error) {
	raw, err := t.postJSON(ctx, "/datapin/", t.headers(), map[string]interface{}{
		"network":      req.Network,
		"quantity":     req.Quantity,
		"data_plan":    req.DataPlan,
		"businessname": req.BusinessName,
		"ref":          reference,
	})
	if err != nil {
		return nil, err
	}
	return Classify(raw), nil
}

func (t *TopupmateClient) GetServices(ctx context.Context, service string) (map[string]interface{}, error) {
	return t.getJSON(ctx, "/services/?service="+url.QueryEscape(service), t.headers())
}
