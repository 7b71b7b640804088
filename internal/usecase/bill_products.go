package usecase

import (
	"context"
	"fmt"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/entity"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/provider"

	"github.com/google/uuid"
)

// Product operations. Each one verifies the transaction PIN, shapes the
// vendor call and hands settlement to ProcessPurchase.

func (u *BillUsecaseImpl) PurchaseAirtime(ctx context.Context, userID uuid.UUID, req *params.AirtimeRequest) (*params.PurchaseResponse, *response.CustomError) {
	if custErr := u.walletUC.VerifyPin(ctx, userID, req.Pin); custErr != nil {
		return nil, custErr
	}

	return u.ProcessPurchase(ctx, PurchaseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        entity.TransactionTypePurchase,
		Description: fmt.Sprintf("Airtime TopUp for %s", req.MobileNumber),
		Metadata: map[string]interface{}{
			"category":      "AIRTIME",
			"mobile_number": req.MobileNumber,
			"network":       req.Network,
		},
		RequestID: req.RequestID,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return u.peyflex.PurchaseAirtime(ctx, provider.AirtimePurchaseRequest{
				Network:      req.Network,
				MobileNumber: req.MobileNumber,
				Amount:       req.Amount,
			}, reference)
		},
	})
}

func (u *BillUsecaseImpl) PurchaseData(ctx context.Context, userID uuid.UUID, req *params.DataRequest) (*params.PurchaseResponse, *response.CustomError) {
	if custErr := u.walletUC.VerifyPin(ctx, userID, req.Pin); custErr != nil {
		return nil, custErr
	}

	return u.ProcessPurchase(ctx, PurchaseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        entity.TransactionTypePurchase,
		Description: fmt.Sprintf("Data Purchase (%s) for %s", req.PlanName, req.MobileNumber),
		Metadata: map[string]interface{}{
			"category":      "DATA",
			"mobile_number": req.MobileNumber,
			"network":       req.Network,
			"plan":          req.PlanName,
		},
		RequestID: req.RequestID,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return u.peyflex.PurchaseData(ctx, provider.DataPurchaseRequest{
				Network:      req.Network,
				MobileNumber: req.MobileNumber,
				PlanCode:     req.PlanCode,
			}, reference)
		},
	})
}

func (u *BillUsecaseImpl) PurchaseElectricity(ctx context.Context, userID uuid.UUID, req *params.ElectricityRequest) (*params.PurchaseResponse, *response.CustomError) {
	if custErr := u.walletUC.VerifyPin(ctx, userID, req.Pin); custErr != nil {
		return nil, custErr
	}

	return u.ProcessPurchase(ctx, PurchaseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        entity.TransactionTypePurchase,
		Description: fmt.Sprintf("Electricity Recharge for %s", req.MeterNumber),
		Metadata: map[string]interface{}{
			"category":     "ELECTRICITY",
			"meter_number": req.MeterNumber,
			"provider":     req.Provider,
			"meter_type":   req.MeterType,
		},
		RequestID: req.RequestID,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return u.peyflex.PurchaseElectricity(ctx, provider.ElectricityPurchaseRequest{
				Provider:    req.Provider,
				MeterNumber: req.MeterNumber,
				Amount:      req.Amount,
				MeterType:   req.MeterType,
			}, reference)
		},
	})
}

func (u *BillUsecaseImpl) PurchaseCableTv(ctx context.Context, userID uuid.UUID, req *params.CableTvRequest) (*params.PurchaseResponse, *response.CustomError) {
	if custErr := u.walletUC.VerifyPin(ctx, userID, req.Pin); custErr != nil {
		return nil, custErr
	}

	return u.ProcessPurchase(ctx, PurchaseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        entity.TransactionTypePurchase,
		Description: fmt.Sprintf("Cable TV (%s) for %s", req.PlanName, req.IucNumber),
		Metadata: map[string]interface{}{
			"category":   "CABLE_TV",
			"iuc_number": req.IucNumber,
			"provider":   req.Provider,
			"plan":       req.PlanName,
		},
		RequestID: req.RequestID,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return u.peyflex.PurchaseCableTv(ctx, provider.CableTvPurchaseRequest{
				Provider:  req.Provider,
				IucNumber: req.IucNumber,
				PlanCode:  req.PlanCode,
			}, reference)
		},
	})
}

func (u *BillUsecaseImpl) PurchaseExamPin(ctx context.Context, userID uuid.UUID, req *params.ExamPinRequest) (*params.PurchaseResponse, *response.CustomError) {
	if custErr := u.walletUC.VerifyPin(ctx, userID, req.Pin); custErr != nil {
		return nil, custErr
	}

	return u.ProcessPurchase(ctx, PurchaseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        entity.TransactionTypePurchase,
		Description: fmt.Sprintf("Exam Pin Purchase (%s) x%d", req.Provider, req.Quantity),
		Metadata: map[string]interface{}{
			"category": "EXAM_PIN",
			"provider": req.Provider,
			"quantity": req.Quantity,
		},
		RequestID: req.RequestID,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return u.topupmate.PurchaseExamPin(ctx, provider.ExamPinPurchaseRequest{
				Provider: req.Provider,
				Quantity: req.Quantity,
			}, reference)
		},
	})
}

func (u *BillUsecaseImpl) PurchaseRechargePin(ctx context.Context, userID uuid.UUID, req *params.RechargePinRequest) (*params.PurchaseResponse, *response.CustomError) {
	if custErr := u.walletUC.VerifyPin(ctx, userID, req.Pin); custErr != nil {
		return nil, custErr
	}

	return u.ProcessPurchase(ctx, PurchaseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        entity.TransactionTypePurchase,
		Description: fmt.Sprintf("Recharge Pin Purchase (%s) x%d", req.Network, req.Quantity),
		Metadata: map[string]interface{}{
			"category": "RECHARGE_PIN",
			"network":  req.Network,
			"quantity": req.Quantity,
			"plan":     req.Plan,
		},
		RequestID: req.RequestID,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return u.topupmate.PurchaseRechargePin(ctx, provider.RechargePinPurchaseRequest{
				Network:      req.Network,
				Quantity:     req.Quantity,
				Plan:         req.Plan,
				BusinessName: req.BusinessName,
			}, reference)
		},
	})
}

func (u *BillUsecaseImpl) PurchaseDataPin(ctx context.Context, userID uuid.UUID, req *params.DataPinRequest) (*params.PurchaseResponse, *response.CustomError) {
	if custErr := u.walletUC.VerifyPin(ctx, userID, req.Pin); custErr != nil {
		return nil, custErr
	}

	return u.ProcessPurchase(ctx, PurchaseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        entity.TransactionTypePurchase,
		Description: fmt.Sprintf("Data Pin Purchase (%s) x%d", req.Network, req.Quantity),
		Metadata: map[string]interface{}{
			"category":  "DATA_PIN",
			"network":   req.Network,
			"quantity":  req.Quantity,
			"data_plan": req.DataPlan,
		},
		RequestID: req.RequestID,
		Call: func(ctx context.Context, reference string) (*provider.PurchaseResult, error) {
			return u.topupmate.PurchaseDataPin(ctx, provider.DataPinPurchaseRequest{
				Network:      req.Network,
				Quantity:     req.Quantity,
				DataPlan:     req.DataPlan,
				BusinessName: req.BusinessName,
			}, reference)
		},
	})
}

// Catalog pass-throughs.

func (u *BillUsecaseImpl) GetDataNetworks(ctx context.Context) (map[string]interface{}, *response.CustomError) {
	raw, err := u.peyflex.GetDataNetworks(ctx)
	if err != nil {
		u.logger.WithError(err).Error("Failed to fetch data networks")
		return nil, response.ProviderError("failed to fetch data networks")
	}
	return raw, nil
}

func (u *BillUsecaseImpl) GetDataPlans(ctx context.Context, networkID string) (map[string]interface{}, *response.CustomError) {
	raw, err := u.peyflex.GetDataPlans(ctx, networkID)
	if err != nil {
		u.logger.WithError(err).Error("Failed to fetch data plans")
		return nil, response.ProviderError("failed to fetch data plans")
	}
	return raw, nil
}

func (u *BillUsecaseImpl) GetCableProviders(ctx context.Context) (map[string]interface{}, *response.CustomError) {
	raw, err := u.peyflex.GetCableProviders(ctx)
	if err != nil {
		u.logger.WithError(err).Error("Failed to fetch cable providers")
		return nil, response.ProviderError("failed to fetch cable providers")
	}
	return raw, nil
}

func (u *BillUsecaseImpl) GetCablePlans(ctx context.Context, providerID string) (map[string]interface{}, *response.CustomError) {
	raw, err := u.peyflex.GetCablePlans(ctx, providerID)
	if err != nil {
		u.logger.WithError(err).Error("Failed to fetch cable plans")
		return nil, response.ProviderError("failed to fetch cable plans")
	}
	return raw, nil
}

func (u *BillUsecaseImpl) GetElectricityPlans(ctx context.Context) (map[string]interface{}, *response.CustomError) {
	raw, err := u.peyflex.GetElectricityPlans(ctx)
	if err != nil {
		u.logger.WithError(err).Error("Failed to fetch electricity plans")
		return nil, response.ProviderError("failed to fetch electricity plans")
	}
	return raw, nil
}

func (u *BillUsecaseImpl) VerifyCustomer(ctx context.Context, kind string, payload map[string]interface{}) (map[string]interface{}, *response.CustomError) {
	raw, err := u.peyflex.VerifyCustomer(ctx, kind, payload)
	if err != nil {
		u.logger.WithError(err).Error("Failed to verify customer")
		return nil, response.ProviderError("failed to verify customer")
	}
	return raw, nil
}

func (u *BillUsecaseImpl) GetTopupmateServices(ctx context.Context, service string) (map[string]interface{}, *response.CustomError) {
	raw, err := u.topupmate.GetServices(ctx, service)
	if err != nil {
		u.logger.WithError(err).Error("Failed to fetch topupmate services")
		return nil, response.ProviderError("failed to fetch services")
	}
	return raw, nil
}
