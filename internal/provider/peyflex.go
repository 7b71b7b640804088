package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PeyflexClient fulfills airtime, data, electricity and cable-TV purchases.
type PeyflexClient struct {
	*client
	apiToken string
}

func NewPeyflexClient(baseURL, apiToken string, timeout time.Duration, logger *logrus.Logger) *PeyflexClient {
	return &PeyflexClient{
		client:   newClient(baseURL, timeout, logger),
		apiToken: apiToken,
	}
}

func (p *PeyflexClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Token " + p.apiToken,
	}
}

type AirtimePurchaseRequest struct {
	Network      string          `json:"network"`
	MobileNumber string          `json:"mobile_number"`
	Amount       decimal.Decimal `json:"amount"`
	AirtimeType  string          `json:"airtime_type"`
}

func (p *PeyflexClient) PurchaseAirtime(ctx context.Context, req AirtimePurchaseRequest, reference string) (*PurchaseResult, error) {
	if req.AirtimeType == "" {
		req.AirtimeType = "VTU"
	}
	raw, err := p.postJSON(ctx, "/api/airtime/topup/", p.headers(), map[string]interface{}{
		"network":       req.Network,
		"mobile_number": req.MobileNumber,
		"amount":        req.Amount,
		"airtime_type":  req.AirtimeType,
		"request_id":    reference,
	})
	if err != nil {
		return nil, err
	}
	return Classify(raw), nil
}

type DataPurchaseRequest struct {
	Network      string `json:"network"`
	MobileNumber string `json:"mobile_number"`
	PlanCode     string `json:"plan_code"`
}

func (p *PeyflexClient) PurchaseData(ctx context.Context, req DataPurchaseRequest, reference string) (*PurchaseResult, error) {
	raw, err := p.postJSON(ctx, "/api/data/purchase/", p.headers(), map[string]interface{}{
		"network":       req.Network,
		"mobile_number": req.MobileNumber,
		"plan_code":     req.PlanCode,
		"request_id":    reference,
	})
	if err != nil {
		return nil, err
	}
	return Classify(raw), nil
}

type ElectricityPurchaseRequest struct {
	Provider    string          `json:"provider"`
	MeterNumber string          `json:"meter_number"`
	Amount      decimal.Decimal `json:"amount"`
	MeterType   string          `json:"meter_type"`
}

func (p *PeyflexClient) PurchaseElectricity(ctx context.Context, req ElectricityPurchaseRequest, reference string) (*PurchaseResult, error) {
	raw, err := p.postJSON(ctx, "/api/electricity/subscribe/", p.headers(), map[string]interface{}{
		"provider":     req.Provider,
		"meter_number": req.MeterNumber,
		"amount":       req.Amount,
		"meter_type":   req.MeterType,
		"request_id":   reference,
	})
	if err != nil {
		return nil, err
	}
	return Classify(raw), nil
}

type CableTvPurchaseRequest struct {
	Provider  string `json:"provider"`
	IucNumber string `json:"iuc_number"`
	PlanCode  string `json:"plan_code"`
}

func (p *PeyflexClient) PurchaseCableTv(ctx context.Context, req CableTvPurchaseRequest, reference string) (*PurchaseResult, error) {
	raw, err := p.postJSON(ctx, "/api/cable/subscribe/", p.headers(), map[string]interface{}{
		"provider":   req.Provider,
		"iuc_number": req.IucNumber,
		"plan_code":  req.PlanCode,
		"request_id": reference,
	})
	if err != nil {
		return nil, err
	}
	return Classify(raw), nil
}

// Catalog pass-throughs. The raw vendor payloads are returned as-is; the
// HTTP layer only relays them.

func (p *PeyflexClient) GetDataNetworks(ctx context.Context) (map[string]interface{}, error) {
	return p.getJSON(ctx, "/api/data/networks/", p.headers())
}

func (p *PeyflexClient) GetDataPlans(ctx context.Context, networkID string) (map[string]interface{}, error) {
	return p.getJSON(ctx, "/api/data/plans/?network="+url.QueryEscape(networkID), p.headers())
}

func (p *PeyflexClient) GetCableProviders(ctx context.Context) (map[string]interface{}, error) {
	return p.getJSON(ctx, "/api/cable/providers/", p.headers())
}

func (p *PeyflexClient) GetCablePlans(ctx context.Context, providerID string) (map[string]interface{}, error) {
	return p.getJSON(ctx, fmt.Sprintf("/api/cable/plans/%s/", url.PathEscape(providerID)), p.headers())
}

func (p *PeyflexClient) GetElectricityPlans(ctx context.Context) (map[string]interface{}, error) {
	return p.getJSON(ctx, "/api/electricity/plans/?identifier=electricity", p.headers())
}

// VerifyCustomer resolves a meter or smartcard number to the holder's name
// before a purchase is attempted.
func (p *PeyflexClient) VerifyCustomer(ctx context.Context, kind string, payload map[string]interface{}) (map[string]interface{}, error) {
	if kind == "cable" {
		return p.postJSON(ctx, "/api/cable/verify/", p.headers(), payload)
	}
	query := url.Values{}
	for k, v := range payload {
		query.Set(k, fmt.Sprint(v))
	}
	return p.getJSON(ctx, "/api/electricity/verify/?"+query.Encode(), p.headers())
}
